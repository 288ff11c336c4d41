package authcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/relay/cmd/relay/auth"
	"github.com/papercomputeco/relay/pkg/credentials"
)

var _ = Describe("Auth Command", func() {
	var tmpDir string

	newCmd := func(stdin string, args ...string) (*cobra.Command, *bytes.Buffer) {
		cmd := authcmder.NewAuthCmd()
		cmd.PersistentFlags().String("config-dir", "", "Override path to .relay/ config directory")
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetIn(bytes.NewBufferString(stdin))
		cmd.SetArgs(args)
		return cmd, out
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "relay-auth-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("NewAuthCmd", func() {
		It("creates a command with expected properties", func() {
			cmd := authcmder.NewAuthCmd()
			Expect(cmd.Use).To(Equal("auth [provider]"))
			Expect(cmd.Short).NotTo(BeEmpty())
			Expect(cmd.Flags().Lookup("list")).NotTo(BeNil())
			Expect(cmd.Flags().Lookup("remove")).NotTo(BeNil())
		})
	})

	Describe("storing a key", func() {
		It("reads the key from piped stdin", func() {
			cmd, out := newCmd("  sk-piped  \n", "openai", "--config-dir", tmpDir)
			Expect(cmd.Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("Stored"))

			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			key, err := mgr.GetKey(credentials.ProviderOpenAI)
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("sk-piped"))

			info, err := os.Stat(filepath.Join(tmpDir, "credentials.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("normalises the provider name", func() {
			cmd, _ := newCmd("sk-test\n", "  OpenAI ", "--config-dir", tmpDir)
			Expect(cmd.Execute()).To(Succeed())
		})

		It("rejects an empty key", func() {
			cmd, _ := newCmd("   \n", "openai", "--config-dir", tmpDir)
			Expect(cmd.Execute()).To(MatchError(ContainSubstring("cannot be empty")))
		})

		It("fails when stdin is empty", func() {
			cmd, _ := newCmd("", "openai", "--config-dir", tmpDir)
			Expect(cmd.Execute()).To(MatchError(ContainSubstring("no input")))
		})
	})

	Describe("--list flag", func() {
		It("shows no credentials when none stored", func() {
			cmd, out := newCmd("", "--list", "--config-dir", tmpDir)
			Expect(cmd.Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("No stored credentials"))
		})

		It("lists stored credentials", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())

			cmd, out := newCmd("", "--list", "--config-dir", tmpDir)
			Expect(cmd.Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("openai"))
			Expect(out.String()).NotTo(ContainSubstring("sk-test"))
		})
	})

	Describe("--remove flag", func() {
		It("removes stored credentials", func() {
			mgr, err := credentials.NewManager(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(mgr.SetKey("openai", "sk-test")).To(Succeed())

			cmd, _ := newCmd("", "--remove", "openai", "--config-dir", tmpDir)
			Expect(cmd.Execute()).To(Succeed())

			key, err := mgr.GetKey("openai")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())
		})
	})

	Describe("provider argument validation", func() {
		It("returns error when no provider given", func() {
			cmd, _ := newCmd("", "--config-dir", tmpDir)
			err := cmd.Execute()
			Expect(err).To(MatchError(ContainSubstring("provider argument required")))
		})

		It("returns error for unsupported provider", func() {
			cmd, _ := newCmd("sk-test\n", "anthropic", "--config-dir", tmpDir)
			err := cmd.Execute()
			Expect(err).To(MatchError(ContainSubstring("unsupported provider")))
		})
	})

	Describe("shell completion", func() {
		It("provides provider name completions", func() {
			cmd := authcmder.NewAuthCmd()
			completions, directive := cmd.ValidArgsFunction(cmd, []string{}, "")
			Expect(completions).To(ConsistOf("openai"))
			Expect(directive).To(Equal(cobra.ShellCompDirectiveNoFileComp))
		})

		It("provides no completions after first arg", func() {
			cmd := authcmder.NewAuthCmd()
			completions, directive := cmd.ValidArgsFunction(cmd, []string{"openai"}, "")
			Expect(completions).To(BeNil())
			Expect(directive).To(Equal(cobra.ShellCompDirectiveNoFileComp))
		})
	})
})
