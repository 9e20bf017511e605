package request

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Guyuepp/bucket-filter/domain"
)

// BucketURI is the :bucket path parameter.
type BucketURI struct {
	Bucket string `uri:"bucket" binding:"required,max=64,bucketname"`
}

func (r *BucketURI) ToDomain() domain.Bucket {
	return domain.NewBucket(r.Bucket)
}

type KeyQuery struct {
	Key string `form:"key" binding:"required"`
}

type SubQuery struct {
	Lo          int64 `form:"lo" binding:"gte=0"`
	Hi          int64 `form:"hi" binding:"gtefield=Lo"`
	DoubleCheck bool  `form:"double_check"`
}

func (r *SubQuery) ToDomain() domain.RangeFilter {
	return domain.RangeFilter{Lo: r.Lo, Hi: r.Hi}
}

type Item struct {
	Key   string `json:"key" binding:"required,max=255"`
	Value string `json:"value"`
}

// IngestBody is the body of an ingest request.
type IngestBody struct {
	Items []Item `json:"items" binding:"required,min=1,max=1000,dive"`
}

// ToDomain: Request -> Domain
func (r *IngestBody) ToDomain() []domain.Item {
	res := make([]domain.Item, len(r.Items))
	for i := range r.Items {
		res[i] = domain.Item{Key: r.Items[i].Key, Value: r.Items[i].Value}
	}
	return res
}

var registerOnce sync.Once

// RegisterValidations adds the custom tags used by the request types to
// gin's validator. It is safe to call more than once.
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("bucketname", func(fl validator.FieldLevel) bool {
			return IsBucketName(fl.Field().String())
		})
	})
}

// IsBucketName reports whether name can be used as a table name unquoted:
// ASCII letters, digits and underscores, not starting with a digit.
func IsBucketName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
