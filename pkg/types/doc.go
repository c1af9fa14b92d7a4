// Package types holds the small interfaces shared across m8db packages.
package types
