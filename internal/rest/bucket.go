package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/rest/request"
	"github.com/Guyuepp/bucket-filter/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// BucketHandler represent the httphandler for bucket reads
type BucketHandler struct {
	Service domain.GateUsecase
}

func NewBucketHandler(svc domain.GateUsecase) *BucketHandler {
	request.RegisterValidations()
	return &BucketHandler{
		Service: svc,
	}
}

// Register mounts the bucket routes on r.
func (h *BucketHandler) Register(r gin.IRouter) {
	r.GET("/buckets/:bucket/rows", h.Rows)
	r.GET("/buckets/:bucket/known-rows", h.KnownRows)
	r.GET("/buckets/:bucket/sub", h.SubBuckets)
	r.POST("/buckets/:bucket/items", h.Ingest)
	r.POST("/buckets/:bucket/signature", h.RebuildSignature)
	r.POST("/refresh", h.Refresh)
}

func bindKeyRequest(c *gin.Context) (domain.Bucket, string, bool) {
	var uri request.BucketURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return domain.Bucket{}, "", false
	}
	var q request.KeyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return domain.Bucket{}, "", false
	}
	return uri.ToDomain(), q.Key, true
}

// Rows will get the items of a bucket by key, gated by the bucket signature
func (h *BucketHandler) Rows(c *gin.Context) {
	b, key, ok := bindKeyRequest(c)
	if !ok {
		return
	}

	items, err := h.Service.Rows(c.Request.Context(), b, key)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewItemsFromDomain(items))
}

// KnownRows will get the items of a bucket by key if the bucket is known
func (h *BucketHandler) KnownRows(c *gin.Context) {
	b, key, ok := bindKeyRequest(c)
	if !ok {
		return
	}

	items, err := h.Service.RowsIfKnown(c.Request.Context(), b, key)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewItemsFromDomain(items))
}

// SubBuckets will get the sub buckets of a bucket in an id range
func (h *BucketHandler) SubBuckets(c *gin.Context) {
	var uri request.BucketURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	var q request.SubQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	subs, err := h.Service.SubBuckets(c.Request.Context(), uri.ToDomain(), q.ToDomain(), q.DoubleCheck)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, response.NewSubBucketsFromDomain(subs))
}

// Ingest will store the items of the request body into a bucket
func (h *BucketHandler) Ingest(c *gin.Context) {
	var uri request.BucketURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}
	var body request.IngestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	items, err := h.Service.Ingest(c.Request.Context(), uri.ToDomain(), body.ToDomain())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, response.NewItemsFromDomain(items))
}

// RebuildSignature recomputes the signature of a bucket from its keys
func (h *BucketHandler) RebuildSignature(c *gin.Context) {
	var uri request.BucketURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	n, err := h.Service.RebuildSignature(c.Request.Context(), uri.ToDomain())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": n})
}

// Refresh reloads both stores
func (h *BucketHandler) Refresh(c *gin.Context) {
	report, err := h.Service.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// getStatusCode will get the code of the error from domain.GateUsecase
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch {
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnableToConnect):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
