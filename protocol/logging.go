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

package protocol

import "github.com/sirupsen/logrus"

// logger is package-level, mirroring the teacher's convention of
// calling logrus directly rather than threading a logger through every
// call; SetLogger lets an embedding daemon swap in its own
// logrus.FieldLogger (e.g. one with request-scoped fields already
// attached) instead of the bare standard logger.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger overrides the logger this package uses for its few
// legitimately loggable internal events (ICV failures,
// protocol/sa reloads). A nil logger is ignored.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}
