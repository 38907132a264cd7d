package manifest

import (
	"encoding/xml"
	"io"
)

// Writer writes a copy manifest document incrementally: one FileObject per
// transferred file, as the copier discovers them, rather than building the
// whole tree in memory first. Adapted from digler's DFXMLWriter.
type Writer struct {
	w   io.Writer
	enc *xml.Encoder
}

func NewWriter(w io.Writer) *Writer {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &Writer{w: w, enc: enc}
}

func (w *Writer) WriteHeader(hdr Header) error {
	if _, err := w.w.Write([]byte(xml.Header)); err != nil {
		return err
	}

	start := xml.StartElement{
		Name: xml.Name{Local: "dfxml"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmloutputversion"}, Value: hdr.XMLOutput},
		},
	}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	out := hdr.XMLOutput
	hdr.XMLOutput = ""
	if err := w.enc.Encode(hdr); err != nil {
		return err
	}
	hdr.XMLOutput = out
	return nil
}

func (w *Writer) WriteFileObject(obj FileObject) error {
	return w.enc.Encode(obj)
}

func (w *Writer) Close() error {
	if err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "dfxml"}}); err != nil {
		return err
	}
	return w.enc.Flush()
}
