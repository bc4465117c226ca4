package officeindex

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"
)

var ooxmlMemberPrefixes = map[string][]string{
	".docx": {"word/"},
	".pptx": {"ppt/"},
	".xlsx": {"xl/"},
}

var xmlTextTags = map[string]bool{
	"t":   true,
	"v":   true,
	"p":   true,
	"a:t": true,
	"is":  true,
	"si":  true,
}

// extractOOXMLText pulls the readable text out of a .docx/.pptx/.xlsx
// container by walking its zipped XML parts directly, without any library
// that understands the document schema: it only needs whichever elements
// carry display text, not the full object model.
func extractOOXMLText(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	prefixes, ok := ooxmlMemberPrefixes[extension]
	if !ok {
		return ""
	}

	archive, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer archive.Close()

	var parts []string
	charBudget := 0

	for _, member := range archive.File {
		lowerName := strings.ToLower(member.Name)
		if !strings.HasSuffix(lowerName, ".xml") {
			continue
		}
		if !hasAnyPrefix(lowerName, prefixes) {
			continue
		}
		if int64(member.UncompressedSize64) > maxXMLMemberBytes {
			continue
		}

		text := extractTextFromXMLMember(member)
		if text != "" {
			parts = append(parts, text)
			charBudget += len(text)
		}

		if charBudget > maxExtractedChars {
			break
		}
	}

	extracted := strings.Join(parts, " ")
	if len(extracted) > maxExtractedChars {
		return extracted[:maxExtractedChars]
	}
	return extracted
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

func extractTextFromXMLMember(member *zip.File) string {
	reader, err := member.Open()
	if err != nil {
		return ""
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}

	return extractTextFromXML(raw)
}

// extractTextFromXML walks every element of a well-formed XML document and
// keeps the text of elements whose local name (after any namespace prefix)
// looks like display text, or whose text content is long enough that it is
// very likely prose rather than a stray attribute-like value.
func extractTextFromXML(xmlBytes []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(xmlBytes))
	decoder.Strict = false

	var chunks []string
	var elementStack []string

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			elementStack = append(elementStack, localName(t.Name.Local))
		case xml.EndElement:
			if len(elementStack) > 0 {
				elementStack = elementStack[:len(elementStack)-1]
			}
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}

			tagName := ""
			if len(elementStack) > 0 {
				tagName = elementStack[len(elementStack)-1]
			}

			if xmlTextTags[tagName] || len(text) > 2 {
				chunks = append(chunks, text)
			}
		}
	}

	return strings.Join(chunks, " ")
}

// localName strips any namespace prefix the way the reference
// implementation does, by keeping only the part after the last colon.
func localName(name string) string {
	if idx := strings.LastIndex(name, ":"); idx != -1 {
		return strings.ToLower(name[idx+1:])
	}
	return strings.ToLower(name)
}
