package recallcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	recallcmder "github.com/loomworksco/recall/cmd/recall"
)

var _ = Describe("NewRecallCmd", func() {
	It("creates the root command", func() {
		cmd := recallcmder.NewRecallCmd()
		Expect(cmd.Use).To(Equal("recall"))
	})

	It("registers all subcommands", func() {
		cmd := recallcmder.NewRecallCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("serve", "chat", "ingest", "config", "version"))
	})

	It("has a persistent debug flag with shorthand", func() {
		cmd := recallcmder.NewRecallCmd()
		flag := cmd.PersistentFlags().Lookup("debug")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("d"))
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("has a persistent config-dir flag", func() {
		cmd := recallcmder.NewRecallCmd()
		flag := cmd.PersistentFlags().Lookup("config-dir")
		Expect(flag).NotTo(BeNil())
	})
})
