package request_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/bucket-filter/internal/rest/request"
)

func TestIsBucketName(t *testing.T) {
	for _, name := range []string{"items", "_tmp", "Orders2024", "a"} {
		assert.True(t, request.IsBucketName(name), name)
	}
	for _, name := range []string{"", "1items", "it-ems", "a b", "x;drop", "ünicode"} {
		assert.False(t, request.IsBucketName(name), name)
	}
}
