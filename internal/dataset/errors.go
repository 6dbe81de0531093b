package dataset

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNotFound indicates the dataset file does not exist at the resolved path.
var ErrNotFound = eris.New("dataset file not found")

// MissingColumnsError reports required columns absent from the source table.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("dataset: missing required columns: %s", strings.Join(e.Missing, ", "))
}
