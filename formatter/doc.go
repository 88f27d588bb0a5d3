// Package formatter provides response wrapping and serialization for SIRI responses.
//
// This package is organized into:
// - wrapper.go: ServiceDelivery wrapping and activity filtering
// - json.go: JSON serialization
// - xml.go: XML serialization with proper escaping
//
// XML is written by hand so element order follows the SIRI schema rather than
// struct field order.
package formatter
