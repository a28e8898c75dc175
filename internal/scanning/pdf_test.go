package scanning

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockPDF struct {
	pages   []string
	pageErr error
	closed  bool
}

func (m *mockPDF) NumPage() int { return len(m.pages) }

func (m *mockPDF) Text(i int) (string, error) {
	if m.pageErr != nil {
		return "", m.pageErr
	}
	return m.pages[i], nil
}

func (m *mockPDF) Close() error {
	m.closed = true
	return nil
}

var _ = Describe("PDFText", func() {
	var (
		pdf     *mockPDF
		openErr error
		scanner *PDFText
		doc     *Document
		err     error
	)

	BeforeEach(func() {
		pdf = &mockPDF{}
		openErr = nil
	})

	JustBeforeEach(func() {
		scanner = &PDFText{open: func([]byte) (pdfDocument, error) {
			if openErr != nil {
				return nil, openErr
			}
			return pdf, nil
		}}
		doc, err = scanner.ScanDocument([]byte("%PDF-1.4"), ContentTypePDF)
	})

	When("the PDF has a text layer", func() {
		BeforeEach(func() {
			pdf.pages = []string{"  e-Arşiv Fatura\n", "", "Ödenecek Tutar 1.180,00 TL"}
		})

		It("joins the pages under the PDF header", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Engine).To(Equal("pdf_text"))
			Expect(doc.Text).To(Equal("=== PDF_TEXT ===\n--- PAGE 1 ---\ne-Arşiv Fatura\n--- PAGE 3 ---\nÖdenecek Tutar 1.180,00 TL"))
		})

		It("closes the document", func() {
			Expect(pdf.closed).To(BeTrue())
		})
	})

	When("no page has text", func() {
		BeforeEach(func() {
			pdf.pages = []string{"", " \n "}
		})

		It("returns ErrNoTextLayer", func() {
			Expect(err).To(MatchError(ErrNoTextLayer))
			Expect(doc).To(BeNil())
		})
	})

	When("a page cannot be read", func() {
		BeforeEach(func() {
			pdf.pages = []string{"x"}
			pdf.pageErr = errors.New("broken stream")
		})

		It("wraps the error", func() {
			Expect(err).To(MatchError(ContainSubstring("reading PDF page 1")))
			Expect(pdf.closed).To(BeTrue())
		})
	})

	When("the data is not a PDF", func() {
		BeforeEach(func() {
			openErr = errors.New("no objects found")
		})

		It("returns an error", func() {
			Expect(err).To(MatchError(ContainSubstring("opening PDF")))
		})
	})
})

var _ = Describe("NewPDFText", func() {
	It("rejects garbage", func() {
		_, err := NewPDFText().ScanDocument([]byte("definitely not a pdf"), ContentTypePDF)
		Expect(err).To(HaveOccurred())
	})
})
