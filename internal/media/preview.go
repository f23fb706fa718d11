package media

import (
	"context"
	"encoding/base64"
)

// Preview renders a picked file as a data URL in the background. It never
// touches the network.
type Preview struct {
	done chan struct{}
	url  string
}

func NewPreview(f File) *Preview {
	p := &Preview{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.url = "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
	}()
	return p
}

// Ready reports whether the data URL has been produced.
func (p *Preview) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the data URL is ready or ctx is done.
func (p *Preview) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.url, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
