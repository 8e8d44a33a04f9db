// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package store

import (
	"sync"

	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
)

var registerS3Once sync.Once

// RegisterS3 registers the "s3" scheme with github.com/grailbio/base/file
// using the default AWS credential chain, so a FileStore rooted at
// "s3://bucket/prefix" can Put/Get/Delete records against S3. It is
// idempotent and safe to call from multiple goroutines.
func RegisterS3() {
	registerS3Once.Do(func() {
		file.RegisterImplementation("s3", func() file.Implementation {
			return s3file.NewImplementation(s3file.NewDefaultProvider(awssession.Options{}), s3file.Options{})
		})
	})
}

// NewS3Store builds a FileStore rooted at an "s3://bucket/prefix" URL,
// registering the s3 scheme first.
func NewS3Store(bucketAndPrefix string) *FileStore {
	RegisterS3()
	return NewFileStore("s3://" + bucketAndPrefix)
}
