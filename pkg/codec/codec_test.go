package codec

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

func sampleEmployees() []domain.Employee {
	return []domain.Employee{
		domain.NewRegular(1, "IT", 1000),
		domain.NewManager(2, "IT", 2000, 1.5),
		domain.NewWageEmployee(3, "Sales", 500, 20, 10),
		domain.NewSalesPerson(4, "Sales", 600, 10, 5, 10, 3000),
	}
}

func decodeAll(t *testing.T, c Codec, data []byte) ([]domain.Employee, error) {
	t.Helper()
	var out []domain.Employee
	for e, err := range c.Decode(bytes.NewReader(data)) {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, c := range []Codec{Lines{}, Binary{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, slices.Values(sampleEmployees())))

			got, err := decodeAll(t, c, buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, sampleEmployees(), got)
		})
	}
}

func TestCodecs_RoundTripEdgeValues(t *testing.T) {
	employees := []domain.Employee{
		domain.NewRegular(-7, "", -100),
		domain.NewWageEmployee(0, "Zürich R&D", 0, -5, 3),
		domain.NewSalesPerson(math.MaxInt64, "営業", 1, 1, 1, -10, 250),
		domain.NewManager(math.MinInt64, "IT", -1, -0.5),
	}
	for _, c := range []Codec{Lines{}, Binary{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, slices.Values(employees)))

			got, err := decodeAll(t, c, buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, employees, got)
		})
	}
}

func TestCodecs_EmptySnapshot(t *testing.T) {
	for _, c := range []Codec{Lines{}, Binary{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, slices.Values([]domain.Employee(nil))))

			got, err := decodeAll(t, c, buf.Bytes())
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestLines_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Lines{}.Encode(&buf, slices.Values(sampleEmployees()[:2])))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"type":"Employee","id":1,"department":"IT","basic_salary":1000,"salary":1000}`, lines[0])
	assert.JSONEq(t, `{"type":"Manager","id":2,"department":"IT","basic_salary":2000,"salary":2000,"factor":1.5}`, lines[1])
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestLines_SkipsBlankLines(t *testing.T) {
	data := "\n" + `{"type":"Employee","id":7,"department":"HR","basic_salary":10}` + "\n\n"

	got, err := decodeAll(t, Lines{}, []byte(data))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID())
}

func TestLines_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		decoded int
		message string
	}{
		{
			name:    "unknown type",
			data:    `{"type":"Intern","id":1,"department":"IT","basic_salary":1}`,
			message: `unknown record type "Intern"`,
		},
		{
			name:    "missing type",
			data:    `{"id":1,"department":"IT","basic_salary":1}`,
			message: "unknown record type",
		},
		{
			name:    "malformed json after a good line",
			data:    `{"type":"Employee","id":1,"department":"IT","basic_salary":1}` + "\n{not json\n",
			decoded: 1,
			message: "line 2",
		},
		{
			name:    "manager without factor",
			data:    `{"type":"Manager","id":1,"department":"IT","basic_salary":1}`,
			message: "requires factor",
		},
		{
			name:    "sales person without sales",
			data:    `{"type":"SalesPerson","id":1,"department":"IT","basic_salary":1,"wage":1,"hours":1,"percent":1}`,
			message: "requires wage, hours, percent, sales",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeAll(t, Lines{}, []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDeserialization)
			assert.Contains(t, err.Error(), tt.message)
			assert.Len(t, got, tt.decoded)
		})
	}
}

func TestLines_DecodeStopsWhenConsumerStops(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Lines{}.Encode(&buf, slices.Values(sampleEmployees())))

	count := 0
	for _, err := range (Lines{}).Decode(&buf) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestBinary_CorruptPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf))
	buf.WriteString("definitely not lz4")

	_, err := decodeAll(t, Binary{}, buf.Bytes())
	assert.ErrorIs(t, err, domain.ErrDeserialization)
}

func TestBinary_UnknownRecordType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeSnapshot(&buf, Snapshot{Records: []Record{{Type: "Contractor", ID: 9, Department: "IT"}}}))

	_, err := decodeAll(t, Binary{}, buf.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeserialization)
	assert.Contains(t, err.Error(), "Contractor")
}

func TestBinary_NonFiniteFactor(t *testing.T) {
	var buf bytes.Buffer
	factor := math.NaN()
	require.NoError(t, encodeSnapshot(&buf, Snapshot{Records: []Record{{Type: domain.KindManager, ID: 3, Department: "IT", Factor: &factor}}}))

	_, err := decodeAll(t, Binary{}, buf.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeserialization)
	assert.ErrorIs(t, err, domain.ErrInvalidEmployee)
}

func TestForName(t *testing.T) {
	c, err := ForName("lines")
	require.NoError(t, err)
	assert.Equal(t, FormatLines, c.Name())

	c, err = ForName("binary")
	require.NoError(t, err)
	assert.Equal(t, FormatBinary, c.Name())

	c, err = ForName("")
	require.NoError(t, err)
	assert.Equal(t, FormatLines, c.Name())

	_, err = ForName("xml")
	assert.Error(t, err)
}
