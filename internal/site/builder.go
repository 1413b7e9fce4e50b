package site

import "bytes"

// DocumentBuilder accumulates rendered sections of the single-document
// output mode. It is created per generation call and owned by the
// orchestrator; sections are appended explicitly, never through shared
// state.
type DocumentBuilder struct {
	buf bytes.Buffer
}

// NewDocumentBuilder returns an empty builder.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{}
}

// Append adds one rendered section.
func (b *DocumentBuilder) Append(section []byte) {
	b.buf.Write(section)
	b.buf.WriteByte('\n')
}

// Len returns the accumulated size in bytes.
func (b *DocumentBuilder) Len() int { return b.buf.Len() }

// Bytes returns the assembled document.
func (b *DocumentBuilder) Bytes() []byte { return b.buf.Bytes() }
