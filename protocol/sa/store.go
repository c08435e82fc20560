/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package sa

import (
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// logger mirrors protocol.SetLogger's convention for this package's one
// loggable internal event, a file reload.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the logger used for reload events. A nil logger
// is ignored.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}

// Store holds the most recently loaded File for a path, swapped
// atomically on Reload so a concurrent reader never observes a
// half-parsed file.
type Store struct {
	path    string
	current atomic.Pointer[File]
	group   singleflight.Group
}

// NewStore creates a Store for path. Call Reload once before Current
// returns anything non-nil.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Current returns the most recently loaded File, or nil if Reload has
// never succeeded.
func (s *Store) Current() *File {
	return s.current.Load()
}

// Reload re-reads and re-parses the file at s's path, atomically
// publishing the result. Overlapping Reload calls are coalesced via
// singleflight so only one actually hits the filesystem.
func (s *Store) Reload() (*File, error) {
	v, err, _ := s.group.Do("reload", func() (any, error) {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, err
		}
		f, err := Parse(data)
		if err != nil {
			return nil, err
		}
		prev := s.current.Load()
		if prev != nil && prev.Fingerprint() == f.Fingerprint() {
			logger.WithField("path", s.path).Debug("ptpmgmt: sa file unchanged")
			return prev, nil
		}
		s.current.Store(f)
		logger.WithFields(logrus.Fields{
			"path": s.path,
			"spps": len(f.spps),
		}).Info("ptpmgmt: sa file reloaded")
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*File), nil
}
