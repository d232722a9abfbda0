// Package telemetry wires OpenTelemetry tracing and metrics for clarity.
//
// # Overview
//
// Engine and embedding instrumentation always records through the otel API.
// Nothing leaves the process unless telemetry is enabled, in which case
// spans and metrics are exported over OTLP (gRPC or HTTP/protobuf) to a
// collector.
//
// # Usage
//
//	tel, err := telemetry.New(ctx, &cfg.Telemetry, version)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	eng, _ := engine.New(cfg.Engine, table, cmap, strategy,
//	    engine.WithTracer(tel.Tracer("clarity.engine")),
//	    engine.WithMeter(tel.Meter("clarity.engine")))
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//	  sampling:
//	    rate: 1.0
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
//
// # Error Handling
//
// Exporter failures never stop an analysis. New degrades to the global
// no-op providers and Health reports why.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "engine.analyze")
//	span.End()
//	tt.AssertSpanExists(t, "engine.analyze")
package telemetry
