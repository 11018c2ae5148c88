package domain

import "strings"

// Bucket is a board column. It is derived from (due, done, now) and never stored.
type Bucket string

const (
	BucketToday Bucket = "today"
	BucketWeek  Bucket = "week"
	BucketLater Bucket = "later"
	BucketDone  Bucket = "done"
)

// Buckets lists the board columns in display order.
var Buckets = []Bucket{BucketToday, BucketWeek, BucketLater, BucketDone}

// ParseBucket validates a bucket name.
func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Buckets {
		if b == known {
			return b, nil
		}
	}
	return "", WrapError(ErrCodeInvalid, ErrInvalidBucket.Message, NewError(ErrCodeInvalid, s))
}
