// Singleton so that it's easier to use in other packages
package prometheus

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/relistan/go-director"
	"github.com/sirupsen/logrus"
)

const (
	RelayRecordsTotal    = "streamsink_relay_records_total"
	RelaySkippedTotal    = "streamsink_relay_skipped_total"
	RelayFailedTotal     = "streamsink_relay_failed_total"
	RelayReadErrors      = "streamsink_relay_read_errors_total"
	RelayCommitErrors    = "streamsink_relay_commit_errors_total"
	RelayConnectAttempts = "streamsink_relay_connect_attempts_total"
	RelayState           = "streamsink_relay_state"
	RelayRate            = "streamsink_relay_rate"
)

var (
	ReportInterval = 10 * time.Second

	mutex    = &sync.RWMutex{}
	counters = make(map[string]float64, 0)

	prometheusMutex    = &sync.RWMutex{}
	prometheusCounters = make(map[string]prometheus.Counter)
	prometheusGauges   = make(map[string]prometheus.Gauge)
	initOnce           = &sync.Once{}

	looper director.Looper
)

// Start initiates CLI stats reporting
func Start(interval time.Duration) {
	if interval <= 0 {
		interval = ReportInterval
	}

	looper = director.NewImmediateTimedLooper(director.FOREVER, interval, make(chan error, 1))

	logrus.Debugf("Launching stats reporter ('%s' interval)", interval)

	go func() {
		looper.Loop(func() error {
			mutex.Lock()
			defer mutex.Unlock()

			for counterName, counterValue := range counters {
				perSecond := counterValue / interval.Seconds()

				logrus.Infof("STATS [%s]: %.2f / %s (%.2f/s)\n", counterName, counterValue,
					interval, perSecond)

				if strings.HasSuffix(counterName, "relay-persisted") {
					SetPromGauge(RelayRate, perSecond)
				}

				// Reset it
				counters[counterName] = 0
			}

			return nil
		})
	}()
}

// Stop ends CLI stats reporting started via Start()
func Stop() {
	if looper != nil {
		looper.Quit()
	}
}

// InitPrometheusMetrics sets up prometheus counters/gauges. Safe to call more
// than once; metrics are only registered the first time.
func InitPrometheusMetrics() {
	initOnce.Do(func() {
		prometheusMutex.Lock()
		defer prometheusMutex.Unlock()

		prometheusCounters[RelayRecordsTotal] = promauto.NewCounter(prometheus.CounterOpts{
			Name: RelayRecordsTotal,
			Help: "Total number of records persisted to the store",
		})

		prometheusCounters[RelaySkippedTotal] = promauto.NewCounter(prometheus.CounterOpts{
			Name: RelaySkippedTotal,
			Help: "Total number of malformed records that were skipped",
		})

		prometheusCounters[RelayFailedTotal] = promauto.NewCounter(prometheus.CounterOpts{
			Name: RelayFailedTotal,
			Help: "Total number of records the store refused to persist",
		})

		prometheusCounters[RelayReadErrors] = promauto.NewCounter(prometheus.CounterOpts{
			Name: RelayReadErrors,
			Help: "Number of errors when reading records from the stream",
		})

		prometheusCounters[RelayCommitErrors] = promauto.NewCounter(prometheus.CounterOpts{
			Name: RelayCommitErrors,
			Help: "Number of errors when committing stream offsets",
		})

		prometheusCounters[RelayConnectAttempts] = promauto.NewCounter(prometheus.CounterOpts{
			Name: RelayConnectAttempts,
			Help: "Number of connection attempts to the stream and the store",
		})

		prometheusGauges[RelayState] = promauto.NewGauge(prometheus.GaugeOpts{
			Name: RelayState,
			Help: "Current relay state (0=disconnected 1=connecting 2=streaming 3=draining 4=stopped)",
		})

		prometheusGauges[RelayRate] = promauto.NewGauge(prometheus.GaugeOpts{
			Name: RelayRate,
			Help: "Current rate of records being persisted",
		})
	})
}

// IncrPromCounter increments a prometheus counter by the given amount. Unknown
// counters (or calls before InitPrometheusMetrics) are ignored.
func IncrPromCounter(key string, amount float64) {
	key = strings.Replace(key, "-", "_", -1)

	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if c, ok := prometheusCounters[key]; ok {
		c.Add(amount)
	}
}

// GetPromCounter returns a registered counter or nil
func GetPromCounter(key string) prometheus.Counter {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	return prometheusCounters[key]
}

// GetPromGauge returns a registered gauge or nil
func GetPromGauge(key string) prometheus.Gauge {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	return prometheusGauges[key]
}

// SetPromGauge sets a prometheus gauge value
func SetPromGauge(key string, amount float64) {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if g, ok := prometheusGauges[key]; ok {
		g.Set(amount)
	}
}

// Incr increments a counter by the given amount
func Incr(name string, value float64) {
	mutex.Lock()
	defer mutex.Unlock()

	counters[name] += value
}

// Mute stops reporting given stats
func Mute(name string) {
	mutex.Lock()
	defer mutex.Unlock()

	delete(counters, name)
}

// Counter returns the current (unreported) value of a CLI stats counter
func Counter(name string) float64 {
	mutex.RLock()
	defer mutex.RUnlock()

	return counters[name]
}
