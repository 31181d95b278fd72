package trigger

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// StoreEvent is the change-notification payload delivered when objects
// change in the source store. The shape follows the S3 event
// notification contract: one payload can carry multiple records.
type StoreEvent struct {
	Records []EventRecord `json:"Records"`
}

// EventRecord describes a single object change
type EventRecord struct {
	EventName string   `json:"eventName"`
	S3        S3Entity `json:"s3"`
	EventTime string   `json:"eventTime,omitempty"`
}

// S3Entity carries the bucket and object details of a record
type S3Entity struct {
	Bucket BucketEntity `json:"bucket"`
	Object ObjectEntity `json:"object"`
}

// BucketEntity identifies the store the change happened in
type BucketEntity struct {
	Name string `json:"name"`
}

// ObjectEntity identifies the changed object. Keys arrive URL-encoded
// per the notification contract.
type ObjectEntity struct {
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}

// ParseEvent decodes a raw store-change event payload
func ParseEvent(data []byte) (*StoreEvent, error) {
	var event StoreEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	return &event, nil
}

// DecodedKey returns the record's object key with URL encoding
// reversed (spaces arrive as "+").
func (r EventRecord) DecodedKey() (string, error) {
	key, err := url.QueryUnescape(r.S3.Object.Key)
	if err != nil {
		return "", fmt.Errorf("invalid object key %q: %w", r.S3.Object.Key, err)
	}
	return key, nil
}
