// Package config handles configuration loading and validation for relayd.
package config
