package converter

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zetflow/zetflow-live/formatter"
	"github.com/zetflow/zetflow-live/model"
)

// ResponseCache memoizes rendered VehicleMonitoring responses for the current
// snapshot. A new snapshot sequence drops every entry; entries expire maxAge
// after they were built. A zero maxAge keeps entries for the whole sequence.
type ResponseCache struct {
	converter *Converter
	ttl       time.Duration

	mu            sync.Mutex
	sequence      uint64
	responseCache *cache.Cache
}

func NewResponseCache(c *Converter, maxAge time.Duration) *ResponseCache {
	ttl := maxAge
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &ResponseCache{converter: c, ttl: ttl, responseCache: cache.New(ttl, 0)}
}

func (cc *ResponseCache) memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}

func (cc *ResponseCache) build(snap model.VehicleSnapshot, now time.Time, format, lineRef, vehicleRef string) ([]byte, error) {
	vm := cc.converter.VehicleMonitoring(snap, now)
	vm = formatter.FilterVehicleMonitoring(vm, lineRef, vehicleRef)
	res := formatter.WrapVehicleMonitoringResponse(vm, now, cc.converter.Codespace())
	rb := formatter.NewResponseBuilder()
	if format == "xml" {
		return rb.BuildXML(res), nil
	}
	return rb.BuildJSON(res)
}

// GetVehicleMonitoringResponse returns snap rendered as json or xml, filtered by
// lineRef and vehicleRef the same way FilterVehicleMonitoring does.
func (cc *ResponseCache) GetVehicleMonitoringResponse(snap model.VehicleSnapshot, now time.Time, format, lineRef, vehicleRef string) ([]byte, error) {
	if format != "xml" {
		format = "json"
	}
	key := cc.memoKey("vm", format, strings.ToLower(strings.TrimSpace(lineRef)), strings.ToLower(strings.TrimSpace(vehicleRef)))

	cc.mu.Lock()
	defer cc.mu.Unlock()
	if snap.Sequence != cc.sequence {
		cc.sequence = snap.Sequence
		cc.responseCache.Flush()
	}
	if v, ok := cc.responseCache.Get(key); ok {
		return v.([]byte), nil
	}
	buf, err := cc.build(snap, now, format, lineRef, vehicleRef)
	if err != nil {
		return nil, err
	}
	cc.responseCache.Set(key, buf, cc.ttl)
	return buf, nil
}

// Len reports the number of cached responses, expired ones included until they
// are next requested.
func (cc *ResponseCache) Len() int {
	return cc.responseCache.ItemCount()
}
