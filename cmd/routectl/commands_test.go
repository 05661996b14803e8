package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const (
	productsCSV = "fpc_reference_product_id,fpc_iata_departure,fpc_iata_arrival,fpc_iata_return\n" +
		"1,LON,LIS,LON\n" +
		"2.0,LON,LIS,LON\n" +
		"3,PAR,NYC,PAR\n"
	patternsCSV = "ProviderName,ConditionDepartureCities,ConditionArrivalCities\n" +
		"BA,LON,LIS\n" +
		"TP,PAR,LIS\n" +
		"Generic,,\n"
)

func TestAggregateCommand(t *testing.T) {
	products := writeFile(t, "products.csv", productsCSV)

	out, _, err := run(t, "aggregate", "--products", products)
	require.NoError(t, err)
	assert.Equal(t,
		"route,product_ids,fpc_iata_departure,fpc_iata_arrival,fpc_iata_return\n"+
			"LON-LIS-LON,1;2,LON,LIS,LON\n"+
			"PAR-NYC-PAR,3,PAR,NYC,PAR\n",
		out)
}

func TestAggregateCommandMissingColumns(t *testing.T) {
	products := writeFile(t, "products.csv", "fpc_reference_product_id\n1\n")

	_, _, err := run(t, "aggregate", "--products", products)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fpc_iata_departure")
}

func TestResolveCommand(t *testing.T) {
	products := writeFile(t, "products.csv", productsCSV)
	patterns := writeFile(t, "patterns.csv", patternsCSV)

	out, stderr, err := run(t, "resolve", "--products", products, "--patterns", patterns, "--product-id", "2")
	require.NoError(t, err)
	assert.Equal(t, "ProviderName,ConditionDepartureCities,ConditionArrivalCities\nBA,LON,LIS\nGeneric,,\n", out)
	assert.Contains(t, stderr, "1 routes, 2 patterns")

	out, stderr, err = run(t, "resolve", "--products", products, "--patterns", patterns, "--product-id", "99")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "no routes found")
}

func TestFilterCommand(t *testing.T) {
	patterns := writeFile(t, "patterns.csv", patternsCSV)

	out, _, err := run(t, "filter", "--patterns", patterns, "--arrival", "lis", "--columns", "ProviderName")
	require.NoError(t, err)
	assert.Equal(t, "ProviderName\nBA\nTP\n", out)

	out, _, err = run(t, "filter", "--patterns", patterns, "--departure", "lon", "--include-blank-departure", "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, "ProviderName,ConditionDepartureCities,ConditionArrivalCities\nBA,LON,LIS\n", out)

	_, _, err = run(t, "filter", "--patterns", patterns, "--columns", "Nope")
	assert.Error(t, err)
}

func TestRequiredFlags(t *testing.T) {
	_, _, err := run(t, "resolve", "--product-id", "1")
	assert.Error(t, err)
}
