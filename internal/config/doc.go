// Package config manages user-level settings stored at
// ~/.python-project-generator/config.yaml. The settings supply defaults for
// project metadata (author, email, license, url), the default template id and
// the log level; every key can be overridden with a PYGEN_<KEY> variable.
package config
