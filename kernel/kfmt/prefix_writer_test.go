package kfmt

import (
	"bytes"
	"errors"
	"testing"
)

func TestPrefixWriter(t *testing.T) {
	specs := []struct {
		input string
		exp   string
	}{
		{
			"",
			"",
		},
		{
			"\n",
			"[vmm] \n",
		},
		{
			"no line break anywhere",
			"[vmm] no line break anywhere",
		},
		{
			"line feed at the end\n",
			"[vmm] line feed at the end\n",
		},
		{
			"\nroot table at 0x80200\nmapped 3 segments\nowned frames: 4",
			"[vmm] \n[vmm] root table at 0x80200\n[vmm] mapped 3 segments\n[vmm] owned frames: 4",
		},
	}

	var (
		buf bytes.Buffer
		w   = PrefixWriter{
			Sink:   &buf,
			Prefix: []byte("[vmm] "),
		}
	)

	for specIndex, spec := range specs {
		buf.Reset()
		w.midLine = false

		wrote, err := w.Write([]byte(spec.input))
		if err != nil {
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
		}

		if expLen := len(spec.input); expLen != wrote {
			t.Errorf("[spec %d] expected writer to write %d bytes; wrote %d", specIndex, expLen, wrote)
		}

		if got := buf.String(); got != spec.exp {
			t.Errorf("[spec %d] expected output:\n%q\ngot:\n%q", specIndex, spec.exp, got)
		}
	}
}

func TestPrefixWriterAcrossWrites(t *testing.T) {
	var (
		buf bytes.Buffer
		w   = PrefixWriter{Sink: &buf, Prefix: []byte("> ")}
	)

	for _, chunk := range []string{"partial ", "line\nnext", " line\n"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatal(err)
		}
	}

	if exp, got := "> partial line\n> next line\n", buf.String(); got != exp {
		t.Fatalf("expected output:\n%q\ngot:\n%q", exp, got)
	}
}

func TestPrefixWriterErrors(t *testing.T) {
	specs := []string{
		"no line break anywhere",
		"\n",
		"line feed at the end\n",
	}

	expErr := errors.New("write failed")
	w := PrefixWriter{
		Sink:   writerThatAlwaysErrors{expErr},
		Prefix: []byte("prefix: "),
	}

	for specIndex, spec := range specs {
		w.midLine = true
		if _, err := w.Write([]byte(spec)); err != expErr {
			t.Errorf("[spec %d] expected error: %v; got %v", specIndex, expErr, err)
		}
	}

	w.midLine = false
	if _, err := w.Write([]byte("x")); err != expErr {
		t.Errorf("expected prefix write error: %v; got %v", expErr, err)
	}
}

type writerThatAlwaysErrors struct {
	err error
}

func (w writerThatAlwaysErrors) Write(_ []byte) (int, error) {
	return 0, w.err
}
