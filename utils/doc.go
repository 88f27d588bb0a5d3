// Package utils provides time formatting helpers shared by the SIRI export.
package utils
