package extractor

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/quicky-ai/quicky-core/internal/pkg/apperr"
	"github.com/quicky-ai/quicky-core/internal/pkg/textutil"
)

// Supported upload extensions.
const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"
)

const docxBodyPart = "word/document.xml"

// SupportedDocument reports whether filename has an extension the document
// extractor can read.
func SupportedDocument(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtPDF, ExtDOCX:
		return true
	}
	return false
}

// DocumentExtractor reads text out of PDF and DOCX files on disk.
type DocumentExtractor struct {
	maxChars int
}

func NewDocumentExtractor(maxChars int) *DocumentExtractor {
	return &DocumentExtractor{maxChars: maxChars}
}

// ExtractFile dispatches on the file extension. Every parse failure becomes
// UnreadableDocument.
func (d *DocumentExtractor) ExtractFile(path string) (text string, err error) {
	defer func() {
		// ledongthuc/pdf panics on some malformed files
		if r := recover(); r != nil {
			text = ""
			err = apperr.Extraction(apperr.CodeUnreadableDocument, apperr.MsgUnreadableDocument, fmt.Errorf("parse %s: %v", filepath.Base(path), r))
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ExtPDF:
		text, err = readPDF(path)
	case ExtDOCX:
		text, err = readDOCX(path)
	default:
		return "", apperr.Validation(apperr.CodeUnsupportedFileType, apperr.MsgUnsupportedFileType)
	}
	if err != nil {
		return "", apperr.Extraction(apperr.CodeUnreadableDocument, apperr.MsgUnreadableDocument, err)
	}
	if d.maxChars > 0 {
		text = textutil.Truncate(text, d.maxChars)
	}
	return text, nil
}

// readPDF appends each page's plain text followed by a newline.
func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// readDOCX appends each paragraph of the main document part followed by a newline.
func readDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxBodyPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBodyPart, err)
		}
		defer rc.Close()
		return docxParagraphs(rc)
	}
	return "", errors.New("docx has no " + docxBodyPart)
}

// docxParagraphs walks WordprocessingML and emits the text of every <w:p>.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		out    strings.Builder
		para   strings.Builder
		inText bool
		// Text boxes nest whole paragraphs inside a run of the outer one.
		depth int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					para.Reset()
				} else if para.Len() > 0 {
					para.WriteByte('\n')
				}
				depth++
			case "t":
				inText = true
			case "tab":
				if depth > 0 {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth == 0 {
					break
				}
				depth--
				if depth == 0 {
					out.WriteString(para.String())
					out.WriteByte('\n')
				} else {
					para.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText && depth > 0 {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}
