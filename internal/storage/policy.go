package storage

import (
	"encoding/json"
	"fmt"
)

// Key prefixes for catalogue blobs. Both are readable anonymously so the
// stored file and thumbnail URLs resolve without credentials.
const (
	ModelPrefix     = "models"
	ThumbnailPrefix = "thumbnails"
)

type policyStatement struct {
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

// PublicReadPolicy grants anonymous s3:GetObject on the model and thumbnail
// prefixes of bucket. Listing and writes stay private.
func PublicReadPolicy(bucket string) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("bucket name is required")
	}

	policy := bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource: []string{
				fmt.Sprintf("arn:aws:s3:::%s/%s/*", bucket, ModelPrefix),
				fmt.Sprintf("arn:aws:s3:::%s/%s/*", bucket, ThumbnailPrefix),
			},
		}},
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
