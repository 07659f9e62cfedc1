// Package factory holds the generic registry behind configurable modules such
// as metrics sinks. A module is selected by its type string; its raw settings
// are decoded into a typed struct by the registered constructor.
//
// The influx metrics sink is registered like this:
//
//	sinks := factory.NewRegistry[metrics.MetricsSink]()
//	_ = sinks.Register("influx", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct {
//	        URL    string `json:"url"`
//	        Bucket string `json:"bucket"`
//	    }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewInfluxSink(c.URL, "", "", c.Bucket), nil
//	})
//	sink, err := sinks.Create(factory.ModuleConfig{
//	    Type: "influx",
//	    Conf: map[string]any{"url": "http://localhost:8086", "bucket": "forecasts"},
//	})
package factory
