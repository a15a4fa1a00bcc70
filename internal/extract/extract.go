// Package extract turns uploaded resume files into plain text.
//
// Extraction never fails from the caller's point of view: unreadable input yields
// an empty string, which callers treat as "no usable content".
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resume-matcher/internal/shared/telemetry"
)

// Declared extensions that select an extraction strategy.
const (
	ExtPDF  = "pdf"
	ExtDOCX = "docx"
	ExtDOC  = "doc"
	ExtTXT  = "txt"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC  = "application/msword"
)

// Text extracts plain text using the extension of fileName.
func Text(ctx context.Context, data []byte, fileName string) string {
	return TextForExtension(ctx, data, Extension(fileName, ""))
}

// TextForExtension extracts plain text using a declared extension such as "pdf".
func TextForExtension(ctx context.Context, data []byte, ext string) string {
	if ctx.Err() != nil || len(data) == 0 {
		return ""
	}
	ext = normalizeExt(ext)

	var (
		text string
		err  error
	)
	switch ext {
	case ExtPDF:
		text, err = extractPDF(data)
	case ExtDOCX, ExtDOC:
		text, err = extractDOCX(data)
	default:
		text = strings.ToValidUTF8(string(data), "")
	}
	if err != nil {
		telemetry.Warn("extract.failed", map[string]any{
			"ext":   ext,
			"bytes": len(data),
			"error": err.Error(),
		})
		return ""
	}
	return strings.TrimSpace(text)
}

// Extension resolves the declared extension from a file name, falling back to the
// upload's content type when the name has none.
func Extension(fileName, mimeType string) string {
	if ext := normalizeExt(filepath.Ext(fileName)); ext != "" {
		return ext
	}
	switch strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])) {
	case mimePDF:
		return ExtPDF
	case mimeDOCX:
		return ExtDOCX
	case mimeDOC:
		return ExtDOC
	case "text/plain":
		return ExtTXT
	default:
		return ""
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Parser entry points, swapped in tests.
var (
	pdfPrimary   = pdfPlainText
	docxDocument = docxDocumentXML
)

func extractPDF(data []byte) (string, error) {
	text, primaryErr := guard(func() (string, error) { return pdfPrimary(data) })
	if primaryErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	text, fallbackErr := guard(func() (string, error) { return pdfPageText(data) })
	if fallbackErr != nil {
		return "", errors.Join(primaryErr, fallbackErr)
	}
	return text, nil
}

// pdfPlainText reads the whole document's text stream in one pass.
func pdfPlainText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plain text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// pdfPageText walks pages one by one, skipping pages it cannot decode.
func pdfPageText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	fonts := make(map[string]*pdf.Font)
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	raw, err := guard(func() (string, error) { return docxDocument(data) })
	if err != nil {
		var zipErr error
		raw, zipErr = guard(func() (string, error) { return zipDocumentXML(data) })
		if zipErr != nil {
			return "", errors.Join(err, zipErr)
		}
	}
	return paragraphs(raw)
}

func docxDocumentXML(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()
	return doc.Editable().GetContent(), nil
}

// zipDocumentXML reads word/document.xml directly for packages the docx reader
// rejects, such as files without a relationships part.
func zipDocumentXML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx zip: %w", err)
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return "", errors.New("document.xml file not found")
}

// paragraphs joins the text runs of each w:p, dropping empty paragraphs.
func paragraphs(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		out    []string
		cur    strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteString("\t")
			case "br", "cr":
				cur.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if p := cur.String(); strings.TrimSpace(p) != "" {
					out = append(out, p)
				}
				cur.Reset()
			}
		}
	}
	return strings.Join(out, "\n"), nil
}

func guard(fn func() (string, error)) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return fn()
}
