package report

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/elektronenhirn/oper/internal/history"
)

const odsMimeType = "application/vnd.oasis.opendocument.spreadsheet"

const odsManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:media-type="` + odsMimeType + `"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

// ODSWriter writes the snapshot as an OpenDocument spreadsheet. An ODS file
// is a zip archive whose first entry must be an uncompressed "mimetype"
// marker; the rows live in content.xml.
type ODSWriter struct{}

// Write serializes the snapshot to an ods file at path.
func (w *ODSWriter) Write(snap *history.Snapshot, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	zw := zip.NewWriter(file)

	// Readers sniff the document type from the first archive entry, which
	// must be named "mimetype" and stored without compression.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mt, odsMimeType); err != nil {
		return err
	}

	manifest, err := zw.Create("META-INF/manifest.xml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(manifest, odsManifest); err != nil {
		return err
	}

	content, err := zw.Create("content.xml")
	if err != nil {
		return err
	}
	if err := writeContentXML(content, snap); err != nil {
		return err
	}

	return zw.Close()
}

func writeContentXML(w io.Writer, snap *history.Snapshot) error {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" office:version="1.2">
 <office:body>
  <office:spreadsheet>
   <table:table table:name="oper-delta report">
`)
	writeContentRow(&buf, header)
	for i := range snap.Commits {
		writeContentRow(&buf, row(&snap.Commits[i]))
	}
	buf.WriteString(`   </table:table>
  </office:spreadsheet>
 </office:body>
</office:document-content>
`)

	_, err := w.Write(buf.Bytes())
	return err
}

func writeContentRow(buf *bytes.Buffer, values []string) {
	buf.WriteString("    <table:table-row>\n")
	for _, v := range values {
		fmt.Fprintf(buf, "     <table:table-cell office:value-type=\"string\"><text:p>%s</text:p></table:table-cell>\n", escapeXML(v))
	}
	buf.WriteString("    </table:table-row>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText on a bytes.Buffer cannot fail.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
