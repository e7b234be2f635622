package cli

import (
	"encoding/json"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/saadamjad-44/school-attendance-system/api/client"
)

// Env is what every command runs against.
type Env struct {
	Client        *client.Client
	Out           io.Writer
	Logger        *zap.Logger
	WatchInterval time.Duration
	Now           func() time.Time
	// Profiles lists saved session profiles; nil when the store cannot.
	Profiles func() ([]string, error)
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// WriteJSON prints v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
