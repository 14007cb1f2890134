// Package xmlsource loads ossec configuration XML into an element tree.
//
// Configuration files are not well-formed documents on their own: they usually hold
// several top-level blocks and may carry bare ampersands, undeclared entities or
// comments containing "--".
// Parse tolerates all of these by cleaning the text and wrapping it in a synthetic
// root element before handing it to etree.
package xmlsource

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/wazuh/ossec-hids/internal/conferr"
)

// RootTag is the synthetic element wrapping every parsed source.
const RootTag = "root_tag"

var (
	xmlDeclaration = regexp.MustCompile(`<\?xml[^>]*\?>`)
	xmlComment     = regexp.MustCompile(`(?s)<!--.*?-->`)
	ampersand      = regexp.MustCompile(`&(#[0-9]+;|#x[0-9a-fA-F]+;|amp;|lt;|gt;|quot;|apos;)?`)
)

// Parse parses configuration text and returns the synthetic root element.
func Parse(text string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString("<" + RootTag + ">" + clean(text) + "</" + RootTag + ">"); err != nil {
		return nil, conferr.Wrap(conferr.CodeMalformedSource, conferr.KindMalformedSource, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, conferr.New(conferr.CodeMalformedSource, conferr.KindMalformedSource, "document has no root element")
	}
	return root, nil
}

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*etree.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, conferr.New(conferr.CodeFileNotFound, conferr.KindNotFound, path)
		}
		return nil, conferr.Wrap(conferr.CodeMalformedSource, conferr.KindMalformedSource, err)
	}
	root, err := Parse(string(data))
	if err != nil {
		if e, ok := conferr.As(err); ok {
			e.Detail = path + ": " + e.Detail
		}
		return nil, err
	}
	return root, nil
}

// Pretty re-indents text with two spaces, without an XML declaration and without blank
// lines. The text must be a single well-formed document; syntax errors are reported
// with CodeXMLSyntax.
func Pretty(text string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlDeclaration.ReplaceAllString(text, "")); err != nil {
		return "", conferr.Wrap(conferr.CodeXMLSyntax, conferr.KindMalformedSource, err)
	}
	if doc.Root() == nil {
		return "", conferr.New(conferr.CodeXMLSyntax, conferr.KindMalformedSource, "document has no root element")
	}
	doc.Indent(2)

	out, err := doc.WriteToString()
	if err != nil {
		return "", conferr.Wrap(conferr.CodeXMLSyntax, conferr.KindMalformedSource, err)
	}

	var buf bytes.Buffer
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

func clean(text string) string {
	text = xmlDeclaration.ReplaceAllString(text, "")
	text = xmlComment.ReplaceAllString(text, "")
	return ampersand.ReplaceAllStringFunc(text, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}
