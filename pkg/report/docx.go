package report

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const stylesXML = xml.Header + `<w:styles xmlns:w="` + nsW + `">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="120"/></w:pPr><w:rPr><w:sz w:val="22"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:spacing w:after="240"/></w:pPr><w:rPr><w:b/><w:sz w:val="48"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Quote"><w:name w:val="Quote"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:ind w:left="864" w:right="864"/></w:pPr><w:rPr><w:i/><w:color w:val="404040"/></w:rPr></w:style>
</w:styles>`

// OOXML body elements. Only what the report needs is modelled.
type docxDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	Body    docxBody `xml:"w:body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"w:p"`
}

type docxParagraph struct {
	Props *docxParagraphProps `xml:"w:pPr,omitempty"`
	Runs  []docxRun           `xml:"w:r"`
}

type docxParagraphProps struct {
	Style         *docxVal  `xml:"w:pStyle,omitempty"`
	Bidi          *struct{} `xml:"w:bidi,omitempty"`
	Justification *docxVal  `xml:"w:jc,omitempty"`
}

type docxVal struct {
	Val string `xml:"w:val,attr"`
}

type docxRun struct {
	Props *docxRunProps `xml:"w:rPr,omitempty"`
	Break *struct{}     `xml:"w:br,omitempty"`
	Text  *docxText     `xml:"w:t,omitempty"`
}

type docxRunProps struct {
	Bold *struct{} `xml:"w:b,omitempty"`
	RTL  *struct{} `xml:"w:rtl,omitempty"`
}

type docxText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// docxBuilder collects paragraphs in document order
type docxBuilder struct {
	rtl   bool
	paras []docxParagraph
}

func (b *docxBuilder) props(style, align string) *docxParagraphProps {
	if style == "" && align == "" && !b.rtl {
		return nil
	}
	p := &docxParagraphProps{}
	if style != "" {
		p.Style = &docxVal{Val: style}
	}
	if b.rtl {
		p.Bidi = &struct{}{}
	}
	if align != "" {
		p.Justification = &docxVal{Val: align}
	}
	return p
}

// runs turns text into runs, one per line, joined by line breaks
func (b *docxBuilder) runs(text string, bold bool) []docxRun {
	var runs []docxRun
	for i, line := range strings.Split(text, "\n") {
		run := docxRun{Text: &docxText{Space: "preserve", Value: line}}
		if bold || b.rtl {
			run.Props = &docxRunProps{}
			if bold {
				run.Props.Bold = &struct{}{}
			}
			if b.rtl {
				run.Props.RTL = &struct{}{}
			}
		}
		if i > 0 {
			run.Break = &struct{}{}
		}
		runs = append(runs, run)
	}
	return runs
}

func (b *docxBuilder) paragraph(style, align string, runs ...docxRun) {
	b.paras = append(b.paras, docxParagraph{Props: b.props(style, align), Runs: runs})
}

// WriteDocx writes the report as a Word document: a centered title, the
// metadata paragraph, then one quote block per record.
func WriteDocx(w io.Writer, r Report) error {
	h := r.header()
	b := &docxBuilder{rtl: IsRTL(r.Lang)}

	b.paragraph("Title", "center", b.runs(h.Title, false)...)

	var meta []docxRun
	meta = append(meta, b.runs(h.Source, true)...)
	for _, line := range []string{h.Date, h.Count} {
		next := b.runs(line, false)
		next[0].Break = &struct{}{}
		meta = append(meta, next...)
	}
	b.paragraph("", "", meta...)
	b.paragraph("", "")

	for i, rec := range r.Records {
		b.paragraph("", "", b.runs(r.entry(i+1, rec), true)...)
		b.paragraph("Quote", "", b.runs(rec.Text, false)...)
		for _, line := range r.details(rec) {
			b.paragraph("", "", b.runs(line, false)...)
		}
		b.paragraph("", "", b.runs(strings.Repeat("_", 50), false)...)
	}

	doc := docxDocument{XmlnsW: nsW, Body: docxBody{Paragraphs: b.paras}}
	body, err := xml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to encode document.xml")
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", xml.Header + string(body)},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", part.name)
		}
		if _, err := io.WriteString(f, part.data); err != nil {
			return errors.Wrapf(err, "failed to write %s", part.name)
		}
	}
	return errors.Wrap(zw.Close(), "failed to finish docx archive")
}
