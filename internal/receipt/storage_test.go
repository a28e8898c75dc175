package receipt

import (
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		var (
			filename  string
			data      []byte
			savedPath string
			err       error
		)

		BeforeEach(func() {
			filename = "12345/output/fis.json"
			data = []byte(`{"id":"x"}`)
		})

		JustBeforeEach(func() {
			savedPath, err = storage.Save(filename, data)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct path", func() {
				Expect(savedPath).To(Equal(filename))
			})

			It("should create parent directories and write the file", func() {
				filePath := filepath.Join(tmpDir, "12345", "output", "fis.json")
				Expect(filePath).To(BeAnExistingFile())
				content, readErr := os.ReadFile(filePath)
				Expect(readErr).NotTo(HaveOccurred())
				Expect(content).To(Equal(data))
			})
		})

		When("the path leaves the base directory", func() {
			BeforeEach(func() {
				filename = "../escape.json"
			})

			It("should refuse it", func() {
				Expect(err).To(MatchError(ErrInvalidPath))
				Expect(filepath.Join(filepath.Dir(tmpDir), "escape.json")).NotTo(BeAnExistingFile())
			})
		})

		When("the path is absolute", func() {
			BeforeEach(func() {
				filename = "/tmp/abs.json"
			})

			It("should refuse it", func() {
				Expect(err).To(MatchError(ErrInvalidPath))
			})
		})
	})

	Describe("Get", func() {
		var (
			filename string
			data     []byte
			err      error
		)

		JustBeforeEach(func() {
			data, err = storage.Get(filename)
		})

		When("file exists", func() {
			BeforeEach(func() {
				filename = "1/output/a.json"
				_, saveErr := storage.Save(filename, []byte("content"))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("should return the file data", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("content"))
			})
		})

		When("file does not exist", func() {
			BeforeEach(func() {
				filename = "missing.json"
			})

			It("should return a not-exist error", func() {
				Expect(err).To(MatchError(fs.ErrNotExist))
				Expect(data).To(BeNil())
			})
		})
	})

	Describe("Delete", func() {
		var (
			filename string
			err      error
		)

		JustBeforeEach(func() {
			err = storage.Delete(filename)
		})

		When("file exists", func() {
			BeforeEach(func() {
				filename = "1/output/a.json"
				_, saveErr := storage.Save(filename, []byte("content"))
				Expect(saveErr).NotTo(HaveOccurred())
			})

			It("should remove the file", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(filepath.Join(tmpDir, "1", "output", "a.json")).NotTo(BeAnExistingFile())
			})
		})

		When("file does not exist", func() {
			BeforeEach(func() {
				filename = "missing.json"
			})

			It("should return an error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
