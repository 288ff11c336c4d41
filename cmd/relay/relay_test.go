package relaycmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	relaycmder "github.com/papercomputeco/relay/cmd/relay"
)

var _ = Describe("NewRelayCmd", func() {
	It("registers the subcommands", func() {
		cmd := relaycmder.NewRelayCmd()
		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("chat", "config", "auth", "version"))
	})

	It("has the global flags", func() {
		cmd := relaycmder.NewRelayCmd()
		debug := cmd.PersistentFlags().Lookup("debug")
		Expect(debug).NotTo(BeNil())
		Expect(debug.Shorthand).To(Equal("d"))
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("passes --config-dir down to subcommands", func() {
		dir := GinkgoT().TempDir()

		cmd := relaycmder.NewRelayCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"config", "get", "client.model", "--config-dir", dir})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring(dir))
	})
})
