package predparser

import (
	"bytes"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
	vepbench "github.com/vepbench/vepbench"
)

// WriteFile writes records as a submission table in the joined
// variant_id,score,tool shape, delimited per the path extension. Scores are
// formatted with strconv 'g' at full float64 precision so a written
// submission reloads to the same values.
func WriteFile(path string, recs []Record) error {
	buf := &bytes.Buffer{}

	w := csv.NewWriter(buf)
	w.Comma = vepbench.DelimiterForPath(path, bytes.NewReader(nil))

	if err := w.Write([]string{"variant_id", "score", "tool"}); err != nil {
		return pfx.Err(err)
	}
	for _, rec := range recs {
		err := w.Write([]string{
			rec.Variant.ID(),
			strconv.FormatFloat(rec.Score, 'g', -1, 64),
			rec.Tool,
		})
		if err != nil {
			return pfx.Err(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return pfx.Err(err)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
