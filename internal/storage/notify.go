package storage

import (
	"context"
	"log"
	"net/url"

	"github.com/jhrphoto/media-pipeline-go/internal/port"
)

// compile-time check: *MinioStorage must satisfy port.ObjectEventSource
var _ port.ObjectEventSource = (*MinioStorage)(nil)

var objectCreatedEvents = []string{"s3:ObjectCreated:*"}

// ObjectCreated streams creation events for objects under prefix until ctx is
// cancelled. The bucket must carry a notification configuration; minio
// delivers at-least-once, so consumers see the occasional duplicate.
func (s *MinioStorage) ObjectCreated(ctx context.Context, bucket, prefix string) (<-chan port.ObjectEvent, error) {
	log.Printf("listening for object-created events under %q in bucket %q...", prefix, bucket)

	notifications := s.client.ListenBucketNotification(ctx, bucket, prefix, "", objectCreatedEvents)

	out := make(chan port.ObjectEvent)
	go func() {
		defer close(out)
		for info := range notifications {
			if info.Err != nil {
				log.Printf("notification stream error on bucket %q: %v", bucket, info.Err)
				continue
			}
			for _, record := range info.Records {
				// object keys arrive URL-encoded in S3 event records
				key, err := url.QueryUnescape(record.S3.Object.Key)
				if err != nil {
					log.Printf("skipping event with undecodable key %q: %v", record.S3.Object.Key, err)
					continue
				}
				select {
				case out <- port.ObjectEvent{Bucket: record.S3.Bucket.Name, Key: key}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
