package formatter

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/zetflow/zetflow-live/siri"
)

func floatPtr(f float64) *float64 { return &f }

func sampleVM() siri.VehicleMonitoring {
	return siri.VehicleMonitoring{
		ResponseTimestamp: "2025-05-01T08:00:00Z",
		ValidUntil:        "2025-05-01T08:00:30Z",
		VehicleActivity: []siri.VehicleActivityEntry{
			{
				RecordedAtTime: "2025-05-01T07:59:58Z",
				MonitoredVehicleJourney: siri.MonitoredVehicleJourney{
					LineRef: "ZET:Line:6",
					FramedVehicleJourneyRef: &siri.FramedVehicleJourneyRef{
						DataFrameRef:           "2025-05-01",
						DatedVehicleJourneyRef: "ZET:ServiceJourney:T1",
					},
					VehicleMode:       "tram",
					PublishedLineName: "Sopot - Črnomerec & <back>",
					Monitored:         true,
					DataSource:        "ZET",
					VehicleLocation:   &siri.VehicleLocation{Latitude: floatPtr(45.8), Longitude: floatPtr(15.98)},
					VehicleRef:        "ZET:VehicleRef:V1",
				},
			},
			{
				RecordedAtTime: "2025-05-01T07:59:58Z",
				MonitoredVehicleJourney: siri.MonitoredVehicleJourney{
					LineRef:    "ZET:Line:109",
					DataSource: "ZET",
					VehicleRef: "ZET:VehicleRef:V2",
				},
			},
		},
	}
}

// TestBuildXML_WellFormed verifies the XML output parses and carries the SIRI
// namespace and escaped text.
func TestBuildXML_WellFormed(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	res := WrapVehicleMonitoringResponse(sampleVM(), now, "ZET")

	out := string(NewResponseBuilder().BuildXML(res))

	if !strings.HasPrefix(out, xmlHeader) {
		t.Error("XML should start with the XML declaration")
	}
	if !strings.Contains(out, `<Siri xmlns="http://www.siri.org.uk/siri" version="2.0">`) {
		t.Error("XML should contain <Siri> root element with namespace")
	}
	if !strings.Contains(out, "<ProducerRef>ZET</ProducerRef>") {
		t.Error("XML should contain ProducerRef")
	}
	if !strings.Contains(out, "Sopot - Črnomerec &amp; &lt;back&gt;") {
		t.Error("PublishedLineName should be escaped")
	}
	if strings.Count(out, "<VehicleActivity>") != 2 {
		t.Errorf("expected 2 VehicleActivity elements, got %d", strings.Count(out, "<VehicleActivity>"))
	}
	if !strings.Contains(out, "<Longitude>15.980000</Longitude><Latitude>45.800000</Latitude>") {
		t.Error("VehicleLocation should list Longitude before Latitude")
	}
	if strings.Count(out, "<VehicleLocation>") != 1 {
		t.Error("vehicle without a position should have no VehicleLocation")
	}
	if strings.Count(out, "<FramedVehicleJourneyRef>") != 1 {
		t.Error("vehicle without a trip should have no FramedVehicleJourneyRef")
	}

	var doc struct {
		XMLName         xml.Name `xml:"Siri"`
		ServiceDelivery struct {
			ResponseTimestamp string `xml:"ResponseTimestamp"`
			VM                []struct {
				Activities []struct {
					MVJ struct {
						LineRef           string `xml:"LineRef"`
						PublishedLineName string `xml:"PublishedLineName"`
						Monitored         bool   `xml:"Monitored"`
					} `xml:"MonitoredVehicleJourney"`
				} `xml:"VehicleActivity"`
			} `xml:"VehicleMonitoringDelivery"`
		} `xml:"ServiceDelivery"`
	}
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("XML should be well-formed: %v", err)
	}
	if doc.ServiceDelivery.ResponseTimestamp != "2025-05-01T08:00:00Z" {
		t.Errorf("ResponseTimestamp = %q", doc.ServiceDelivery.ResponseTimestamp)
	}
	if len(doc.ServiceDelivery.VM) != 1 || len(doc.ServiceDelivery.VM[0].Activities) != 2 {
		t.Fatalf("unexpected delivery shape: %+v", doc.ServiceDelivery)
	}
	first := doc.ServiceDelivery.VM[0].Activities[0].MVJ
	if first.PublishedLineName != "Sopot - Črnomerec & <back>" || !first.Monitored {
		t.Errorf("first activity decoded as %+v", first)
	}
	if doc.ServiceDelivery.VM[0].Activities[1].MVJ.Monitored {
		t.Error("second activity should not be monitored")
	}
}

// TestBuildXML_ControlCharacters verifies that characters XML cannot carry are
// replaced rather than breaking the document.
func TestBuildXML_ControlCharacters(t *testing.T) {
	vm := sampleVM()
	vm.VehicleActivity[0].MonitoredVehicleJourney.PublishedLineName = "bad\x0bname"
	vm.VehicleActivity[1].MonitoredVehicleJourney.VehicleRef = "ZET:VehicleRef:V\x002\tx"
	res := WrapVehicleMonitoringResponse(vm, time.Now(), "ZET")

	out := NewResponseBuilder().BuildXML(res)

	var doc struct {
		ServiceDelivery struct {
			VM []struct {
				Activities []struct {
					MVJ struct {
						PublishedLineName string `xml:"PublishedLineName"`
						VehicleRef        string `xml:"VehicleRef"`
					} `xml:"MonitoredVehicleJourney"`
				} `xml:"VehicleActivity"`
			} `xml:"VehicleMonitoringDelivery"`
		} `xml:"ServiceDelivery"`
	}
	if err := xml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("XML should be well-formed: %v", err)
	}
	activities := doc.ServiceDelivery.VM[0].Activities
	if got := activities[0].MVJ.PublishedLineName; got != "bad\uFFFDname" {
		t.Errorf("PublishedLineName = %q", got)
	}
	if got := activities[1].MVJ.VehicleRef; got != "ZET:VehicleRef:V\uFFFD2\tx" {
		t.Errorf("VehicleRef = %q", got)
	}
}

func TestBuildJSON(t *testing.T) {
	res := WrapVehicleMonitoringResponse(sampleVM(), time.Now(), "ZET")

	b, err := NewResponseBuilder().BuildJSON(res)
	if err != nil {
		t.Fatalf("BuildJSON: %v", err)
	}

	var decoded siri.SiriResponse
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("JSON should decode: %v", err)
	}
	sd := decoded.Siri.ServiceDelivery
	if sd.ProducerRef != "ZET" {
		t.Errorf("ProducerRef = %q", sd.ProducerRef)
	}
	if sd.ResponseTimestamp != "2025-05-01T08:00:00Z" {
		t.Errorf("ResponseTimestamp should come from the delivery, got %q", sd.ResponseTimestamp)
	}
	if len(sd.VehicleMonitoringDelivery) != 1 || len(sd.VehicleMonitoringDelivery[0].VehicleActivity) != 2 {
		t.Fatalf("unexpected delivery shape")
	}
	if strings.Contains(string(b), `"VehicleLocation":null`) {
		t.Error("absent VehicleLocation should be omitted")
	}
}

func TestBuildServiceDelivery_DefaultCodespace(t *testing.T) {
	sd := BuildServiceDelivery(time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC), "")
	if sd.ProducerRef != "UNKNOWN" {
		t.Errorf("ProducerRef = %q, want UNKNOWN", sd.ProducerRef)
	}
	if sd.ResponseTimestamp != "2025-05-01T08:00:00Z" {
		t.Errorf("ResponseTimestamp = %q", sd.ResponseTimestamp)
	}
}

func TestFilterVehicleMonitoring(t *testing.T) {
	vm := sampleVM()

	tests := []struct {
		name       string
		lineRef    string
		vehicleRef string
		want       []string
	}{
		{name: "no filter", want: []string{"ZET:VehicleRef:V1", "ZET:VehicleRef:V2"}},
		{name: "line", lineRef: "line:6", want: []string{"ZET:VehicleRef:V1"}},
		{name: "vehicle", vehicleRef: " v2 ", want: []string{"ZET:VehicleRef:V2"}},
		{name: "both", lineRef: "109", vehicleRef: "V1", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterVehicleMonitoring(vm, tt.lineRef, tt.vehicleRef)
			if got.ResponseTimestamp != vm.ResponseTimestamp || got.ValidUntil != vm.ValidUntil {
				t.Error("timestamps should be preserved")
			}
			if got.VehicleActivity == nil {
				t.Fatal("VehicleActivity should never be nil")
			}
			var refs []string
			for _, va := range got.VehicleActivity {
				refs = append(refs, va.MonitoredVehicleJourney.VehicleRef)
			}
			if strings.Join(refs, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", refs, tt.want)
			}
		})
	}
}
