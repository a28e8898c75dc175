package scanning

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockScanner struct {
	doc      *Document
	err      error
	closeErr error
	gotType  string
	closed   bool
}

func (m *mockScanner) ScanDocument(data []byte, contentType string) (*Document, error) {
	m.gotType = contentType
	return m.doc, m.err
}

func (m *mockScanner) Close() error {
	m.closed = true
	return m.closeErr
}

var _ = Describe("Router", func() {
	var (
		text   *mockScanner
		router *Router
	)

	BeforeEach(func() {
		text = &mockScanner{doc: &Document{Text: "TOPLAM", Engine: "mock"}}
		router = NewRouterWith(map[string]Scanner{ContentTypeText: text})
	})

	It("dispatches on the normalized content type", func() {
		doc, err := router.ScanDocument([]byte("TOPLAM"), "Text/Plain; charset=utf-8")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Text).To(Equal("TOPLAM"))
		Expect(text.gotType).To(Equal(ContentTypeText))
	})

	It("rejects unsupported types", func() {
		_, err := router.ScanDocument([]byte{0xFF, 0xD8}, ContentTypeJPEG)
		Expect(errors.Is(err, ErrUnsupportedContentType)).To(BeTrue())
	})

	It("closes every scanner", func() {
		text.closeErr = errors.New("boom")
		Expect(router.Close()).To(MatchError(ContainSubstring("boom")))
		Expect(text.closed).To(BeTrue())
	})

	It("reads plain text by default", func() {
		doc, err := NewRouter().ScanDocument([]byte("merhaba"), ContentTypeText)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Text).To(Equal("merhaba"))
	})
})

var _ = Describe("Content types", func() {
	DescribeTable("ContentTypeForExt",
		func(ext, want string) {
			Expect(ContentTypeForExt(ext)).To(Equal(want))
		},
		Entry("text", ".txt", ContentTypeText),
		Entry("pdf", ".PDF", ContentTypePDF),
		Entry("jpg", ".jpg", ContentTypeJPEG),
		Entry("jpeg", ".jpeg", ContentTypeJPEG),
		Entry("png", ".png", ContentTypePNG),
		Entry("unknown", ".docx", ""),
	)

	It("derives the type from a file name", func() {
		Expect(ContentTypeForFile("fis_001.Pdf")).To(Equal(ContentTypePDF))
	})

	It("only reports text-bearing types as supported", func() {
		Expect(Supported(ContentTypeText)).To(BeTrue())
		Expect(Supported("application/pdf; q=1")).To(BeTrue())
		Expect(Supported(ContentTypePNG)).To(BeFalse())
		Expect(Supported("")).To(BeFalse())
	})
})
