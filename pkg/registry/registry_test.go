package registry

import (
	"testing"

	"github.com/basicinsect/dagflow/pkg/values"
)

func TestDefaultRegistrySeedsBuiltins(t *testing.T) {
	r := Default()
	for _, name := range []string{
		"Number", "String", "Bool", "AddNumber", "Multiply", "ClampNumber",
		"ToString", "Concat", "OutputNumber", "OutputString", "If", "Merge",
	} {
		if _, err := r.Lookup(name); err != nil {
			t.Fatalf("expected builtin %q to be registered: %v", name, err)
		}
	}
}

func TestAddAliasResolvesToAddNumber(t *testing.T) {
	r := Default()
	alias, err := r.Lookup("Add")
	if err != nil {
		t.Fatalf("lookup Add: %v", err)
	}
	canonical, err := r.Lookup("AddNumber")
	if err != nil {
		t.Fatalf("lookup AddNumber: %v", err)
	}
	if alias != canonical {
		t.Fatal("expected Add to resolve to the same NodeType as AddNumber")
	}
}

func TestLookupUnknownType(t *testing.T) {
	if _, err := Default().Lookup("DoesNotExist"); err == nil {
		t.Fatal("expected an error for an unknown type")
	}
}

func TestListTypesIsSortedAndIncludesAlias(t *testing.T) {
	names := Default().ListTypes()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("ListTypes not sorted: %q before %q", names[i-1], names[i])
		}
	}
	found := false
	for _, n := range names {
		if n == "Add" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected alias \"Add\" in ListTypes")
	}
}

func TestDescribeRoundTripsDefaults(t *testing.T) {
	sig, err := Default().Describe("Number")
	if err != nil {
		t.Fatalf("describe Number: %v", err)
	}
	if sig.Name != "Number" || len(sig.Outputs) != 1 || sig.Outputs[0] != "number" {
		t.Fatalf("unexpected signature: %+v", sig)
	}
	if len(sig.Params) != 1 || sig.Params[0].Name != "value" || sig.Params[0].Default != float64(0) {
		t.Fatalf("unexpected param signature: %+v", sig.Params)
	}
}

func TestAddNumberCompute(t *testing.T) {
	nt, _ := Default().Lookup("AddNumber")
	out, err := nt.Compute([]values.Value{values.Number(2), values.Number(3)}, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	got, _ := out[0].AsNumber()
	if got != 5 {
		t.Fatalf("2+3 = %v, want 5", got)
	}
}

func TestToStringHexTruncatesTo32Bit(t *testing.T) {
	nt, _ := Default().Lookup("ToString")
	out, err := nt.Compute([]values.Value{values.Number(42)}, map[string]values.Value{"format": values.String("hex")})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	got, _ := out[0].AsString()
	if got != "2a" {
		t.Fatalf("ToString(42, hex) = %q, want %q", got, "2a")
	}
}

func TestMergePicksFirstNonzero(t *testing.T) {
	nt, _ := Default().Lookup("Merge")
	out, err := nt.Compute([]values.Value{values.Number(0), values.Number(7)}, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	got, _ := out[0].AsNumber()
	if got != 7 {
		t.Fatalf("Merge(0,7) = %v, want 7", got)
	}
}

func TestIfEmitsThenAndElseGates(t *testing.T) {
	nt, _ := Default().Lookup("If")
	out, err := nt.Compute([]values.Value{values.Bool(true)}, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	then, _ := out[0].AsBool()
	els, _ := out[1].AsBool()
	if !then || els {
		t.Fatalf("If(true) = (%v,%v), want (true,false)", then, els)
	}
}
