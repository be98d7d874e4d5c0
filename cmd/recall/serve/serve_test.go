package servecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/loomworksco/recall/cmd/recall/serve"
)

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
	})

	It("registers flags with defaults from the config package", func() {
		cmd := servecmder.NewServeCmd()

		listen := cmd.Flags().Lookup("api-listen")
		Expect(listen).NotTo(BeNil())
		Expect(listen.Shorthand).To(Equal("a"))
		Expect(listen.DefValue).To(Equal(":8080"))

		provider := cmd.Flags().Lookup("vector-store-provider")
		Expect(provider).NotTo(BeNil())
		Expect(provider.DefValue).To(Equal("sqlite"))

		dims := cmd.Flags().Lookup("vector-store-dimensions")
		Expect(dims).NotTo(BeNil())
		Expect(dims.DefValue).To(Equal("768"))
	})

	It("defaults storage paths to in-memory", func() {
		cmd := servecmder.NewServeCmd()

		history := cmd.Flags().Lookup("history-path")
		Expect(history).NotTo(BeNil())
		Expect(history.DefValue).To(Equal(""))

		summaryPath := cmd.Flags().Lookup("summary-path")
		Expect(summaryPath).NotTo(BeNil())
		Expect(summaryPath.DefValue).To(Equal(""))
	})
})
