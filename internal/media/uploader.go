package media

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ObjectStorage is the public-read bucket ad images are written to.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// UploadFailure describes one image that could not be stored.
type UploadFailure struct {
	Index int
	Name  string
	Err   error
}

// UploadResult holds the public URLs of stored images in input order, and
// the images that were skipped.
type UploadResult struct {
	URLs   []string
	Failed []UploadFailure
}

type Uploader struct {
	storage     ObjectStorage
	logger      *logger.Logger
	concurrency int
	now         func() time.Time
}

func NewUploader(storage ObjectStorage, log *logger.Logger, concurrency int) *Uploader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Uploader{
		storage:     storage,
		logger:      log.Named("Uploader"),
		concurrency: concurrency,
		now:         time.Now,
	}
}

// ObjectKey builds "{owner}/{ad}/{unixMillis}-{index}.{ext}".
func ObjectKey(ownerID, adID string, at time.Time, index int, ext string) string {
	return fmt.Sprintf("%s/%s/%d-%d.%s", ownerID, adID, at.UnixMilli(), index, ext)
}

// UploadAll stores files under the ad's prefix. A failed image is logged and
// skipped; UploadAll itself never fails.
func (u *Uploader) UploadAll(ctx context.Context, ownerID, adID string, files []File) UploadResult {
	if len(files) == 0 {
		return UploadResult{URLs: []string{}}
	}

	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			key := ObjectKey(ownerID, adID, u.now(), i, f.Ext())
			if err := u.storage.Upload(ctx, key, f.Data, f.ContentType); err != nil {
				errs[i] = err
				return nil
			}
			urls[i] = u.storage.PublicURL(key)
			return nil
		})
	}
	_ = g.Wait()

	res := UploadResult{URLs: make([]string, 0, len(files))}
	for i, f := range files {
		if errs[i] != nil {
			u.logger.Warn("UploadAll: image upload failed, skipping",
				zap.String("ad_id", adID), zap.Int("index", i), zap.String("name", f.Name), zap.Error(errs[i]))
			res.Failed = append(res.Failed, UploadFailure{Index: i, Name: f.Name, Err: errs[i]})
			continue
		}
		res.URLs = append(res.URLs, urls[i])
	}
	return res
}
