// internal/bench/schema_test.go
package bench

import "testing"

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{
			name: "complete record",
			data: `{"metadata":{"benchmark_name":"poisson_solve","timestamp":"2026-03-14T01:00:00","total_execution_time":6.5,"hardware":{"architecture":"x86_64","cpu_model":"EPYC 9654","cpu_max_mhz":3700},"git_commit":{"hash":"a1b2c3d","message":"tune solver"}},"regions":[{"region":"assembly","time":2.5}]}`,
			ok:   true,
		},
		{
			name: "missing metadata",
			data: `{"regions":[{"region":"assembly","time":2.5}]}`,
			ok:   false,
		},
		{
			name: "missing benchmark name",
			data: `{"metadata":{"timestamp":"2026-03-14T01:00:00","total_execution_time":6.5},"regions":[]}`,
			ok:   false,
		},
		{
			name: "region missing time",
			data: `{"metadata":{"benchmark_name":"b","timestamp":"2026-03-14T01:00:00","total_execution_time":6.5},"regions":[{"region":"assembly"}]}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateRecord([]byte(tt.data))
			if tt.ok && err != nil {
				t.Fatalf("ValidateRecord error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("ValidateRecord accepted invalid record")
			}
		})
	}
}
