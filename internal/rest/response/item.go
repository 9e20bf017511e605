package response

import "github.com/Guyuepp/bucket-filter/domain"

type Item struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func NewItemFromDomain(it *domain.Item) Item {
	return Item{
		ID:    it.ID,
		Key:   it.Key,
		Value: it.Value,
	}
}

type SubBucket struct {
	ID   int64  `json:"id"`
	Data []byte `json:"data"` // base64 in JSON
}

func NewSubBucketFromDomain(s *domain.SubBucket) SubBucket {
	return SubBucket{
		ID:   s.ID,
		Data: s.Data,
	}
}

func NewItemsFromDomain(items []domain.Item) []Item {
	res := make([]Item, len(items))
	for i := range items {
		res[i] = NewItemFromDomain(&items[i])
	}
	return res
}

func NewSubBucketsFromDomain(subs []domain.SubBucket) []SubBucket {
	res := make([]SubBucket, len(subs))
	for i := range subs {
		res[i] = NewSubBucketFromDomain(&subs[i])
	}
	return res
}
