package formatter

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/zetflow/zetflow-live/siri"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// BuildXML serializes a SIRI response to XML
func (rb *responseBuilder) BuildXML(res *siri.SiriResponse) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("<Siri xmlns=\"http://www.siri.org.uk/siri\" version=\"2.0\">")
	sd := res.Siri.ServiceDelivery
	b.WriteString("<ServiceDelivery>")
	writeElement(&b, "ResponseTimestamp", sd.ResponseTimestamp)
	writeElement(&b, "ProducerRef", sd.ProducerRef)
	for _, vm := range sd.VehicleMonitoringDelivery {
		writeVehicleMonitoringXML(&b, vm)
	}
	b.WriteString("</ServiceDelivery>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

func writeVehicleMonitoringXML(b *strings.Builder, vm siri.VehicleMonitoring) {
	b.WriteString("<VehicleMonitoringDelivery version=\"2.0\">")
	writeElement(b, "ResponseTimestamp", vm.ResponseTimestamp)
	writeElement(b, "ValidUntil", vm.ValidUntil)
	for _, va := range vm.VehicleActivity {
		b.WriteString("<VehicleActivity>")
		writeElement(b, "RecordedAtTime", va.RecordedAtTime)
		writeElement(b, "ValidUntilTime", va.ValidUntilTime)
		writeMVJXML(b, va.MonitoredVehicleJourney)
		b.WriteString("</VehicleActivity>")
	}
	b.WriteString("</VehicleMonitoringDelivery>")
}

func writeMVJXML(b *strings.Builder, mvj siri.MonitoredVehicleJourney) {
	b.WriteString("<MonitoredVehicleJourney>")
	writeElement(b, "LineRef", mvj.LineRef)
	if fr := mvj.FramedVehicleJourneyRef; fr != nil {
		b.WriteString("<FramedVehicleJourneyRef>")
		writeElement(b, "DataFrameRef", fr.DataFrameRef)
		writeElement(b, "DatedVehicleJourneyRef", fr.DatedVehicleJourneyRef)
		b.WriteString("</FramedVehicleJourneyRef>")
	}
	// VehicleMode right after FramedVehicleJourneyRef
	writeElement(b, "VehicleMode", mvj.VehicleMode)
	writeElement(b, "PublishedLineName", mvj.PublishedLineName)
	b.WriteString("<Monitored>")
	b.WriteString(strconv.FormatBool(mvj.Monitored))
	b.WriteString("</Monitored>")
	writeElement(b, "DataSource", mvj.DataSource)
	if loc := mvj.VehicleLocation; loc != nil && (loc.Latitude != nil || loc.Longitude != nil) {
		b.WriteString("<VehicleLocation>")
		if loc.Longitude != nil {
			b.WriteString("<Longitude>")
			b.WriteString(strconv.FormatFloat(*loc.Longitude, 'f', 6, 64))
			b.WriteString("</Longitude>")
		}
		if loc.Latitude != nil {
			b.WriteString("<Latitude>")
			b.WriteString(strconv.FormatFloat(*loc.Latitude, 'f', 6, 64))
			b.WriteString("</Latitude>")
		}
		b.WriteString("</VehicleLocation>")
	}
	writeElement(b, "VehicleRef", mvj.VehicleRef)
	b.WriteString("<IsCompleteStopSequence>")
	b.WriteString(strconv.FormatBool(mvj.IsCompleteStopSequence))
	b.WriteString("</IsCompleteStopSequence>")
	b.WriteString("</MonitoredVehicleJourney>")
}

// writeElement writes <name>value</name>, or nothing when value is empty.
func writeElement(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(xmlEscape(value))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

// xmlEscape escapes markup characters and replaces characters XML 1.0 cannot
// carry, such as most control codes, with U+FFFD.
func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
