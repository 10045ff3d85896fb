package bristol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteText writes c in Bristol Fashion: a header line with the gate and
// wire counts, a line with the input widths, a line with the output
// widths, a blank line, then one line per gate.
func WriteText(w io.Writer, c *Circuit) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", len(c.Gates), c.WireCount); err != nil {
		return err
	}

	if err := writeWidths(bw, c.Info.Inputs); err != nil {
		return err
	}
	if err := writeWidths(bw, c.Info.Outputs); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}

	for _, g := range c.Gates {
		if err := writeGateLine(bw, g); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeWidths(bw *bufio.Writer, ios []IO) error {
	fields := make([]string, 0, len(ios)+1)
	fields = append(fields, strconv.Itoa(len(ios)))
	for _, item := range ios {
		fields = append(fields, strconv.Itoa(item.Width))
	}
	_, err := bw.WriteString(strings.Join(fields, " ") + "\n")
	return err
}

func writeGateLine(bw *bufio.Writer, g Gate) error {
	fields := make([]string, 0, 2+len(g.Inputs)+len(g.Outputs)+1)
	fields = append(fields, strconv.Itoa(len(g.Inputs)), strconv.Itoa(len(g.Outputs)))
	for _, in := range g.Inputs {
		fields = append(fields, strconv.Itoa(in))
	}
	for _, out := range g.Outputs {
		fields = append(fields, strconv.Itoa(out))
	}
	fields = append(fields, g.Op)
	_, err := bw.WriteString(strings.Join(fields, " ") + "\n")
	return err
}

// ReadText parses Bristol Fashion text produced by WriteText. It does not
// recover input/output names or types — those live only in the JSON
// metadata written by WriteInfo — so the returned Circuit's Info carries
// widths only, with empty names; callers that need names must also read
// the sidecar info file and merge it in.
func ReadText(r io.Reader) (*Circuit, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	header, err := nextFields(sc)
	if err != nil {
		return nil, fmt.Errorf("bristol: reading header: %w", err)
	}
	if len(header) != 2 {
		return nil, fmt.Errorf("bristol: malformed header line %q", strings.Join(header, " "))
	}
	numGates, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("bristol: bad gate count: %w", err)
	}
	wireCount, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, fmt.Errorf("bristol: bad wire count: %w", err)
	}

	inputWidths, err := readWidths(sc)
	if err != nil {
		return nil, fmt.Errorf("bristol: reading input widths: %w", err)
	}
	outputWidths, err := readWidths(sc)
	if err != nil {
		return nil, fmt.Errorf("bristol: reading output widths: %w", err)
	}

	c := &Circuit{WireCount: wireCount, Gates: make([]Gate, 0, numGates)}
	for _, w := range inputWidths {
		c.Info.Inputs = append(c.Info.Inputs, IO{Width: w, Type: TypeForWidth(w)})
	}
	for _, w := range outputWidths {
		c.Info.Outputs = append(c.Info.Outputs, IO{Width: w, Type: TypeForWidth(w)})
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		gate, err := parseGateLine(line)
		if err != nil {
			return nil, err
		}
		c.Gates = append(c.Gates, gate)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(c.Gates) != numGates {
		return nil, fmt.Errorf("bristol: header declared %d gates, found %d", numGates, len(c.Gates))
	}
	return c, nil
}

func nextFields(sc *bufio.Scanner) ([]string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return strings.Fields(line), nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

func readWidths(sc *bufio.Scanner) ([]int, error) {
	fields, err := nextFields(sc)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, err
	}
	if len(fields) != n+1 {
		return nil, fmt.Errorf("bristol: width line declares %d entries, has %d", n, len(fields)-1)
	}
	widths := make([]int, n)
	for i := 0; i < n; i++ {
		width, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, err
		}
		widths[i] = width
	}
	return widths, nil
}

func parseGateLine(line string) (Gate, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Gate{}, fmt.Errorf("bristol: malformed gate line %q", line)
	}
	nIn, err := strconv.Atoi(fields[0])
	if err != nil {
		return Gate{}, fmt.Errorf("bristol: bad n_in in %q: %w", line, err)
	}
	nOut, err := strconv.Atoi(fields[1])
	if err != nil {
		return Gate{}, fmt.Errorf("bristol: bad n_out in %q: %w", line, err)
	}
	want := 2 + nIn + nOut + 1
	if len(fields) != want {
		return Gate{}, fmt.Errorf("bristol: gate line %q has %d fields, want %d", line, len(fields), want)
	}

	g := Gate{Inputs: make([]int, nIn), Outputs: make([]int, nOut)}
	pos := 2
	for i := 0; i < nIn; i++ {
		id, err := strconv.Atoi(fields[pos])
		if err != nil {
			return Gate{}, fmt.Errorf("bristol: bad input wire in %q: %w", line, err)
		}
		g.Inputs[i] = id
		pos++
	}
	for i := 0; i < nOut; i++ {
		id, err := strconv.Atoi(fields[pos])
		if err != nil {
			return Gate{}, fmt.Errorf("bristol: bad output wire in %q: %w", line, err)
		}
		g.Outputs[i] = id
		pos++
	}
	g.Op = fields[pos]
	return g, nil
}

// WriteInfo writes c's CircuitInfo as indented JSON, the sidecar metadata
// file that carries the names ReadText cannot recover from the bare
// Bristol Fashion text.
func WriteInfo(w io.Writer, info CircuitInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}

// ReadInfo parses a CircuitInfo JSON sidecar file.
func ReadInfo(r io.Reader) (CircuitInfo, error) {
	var info CircuitInfo
	dec := json.NewDecoder(r)
	if err := dec.Decode(&info); err != nil {
		return CircuitInfo{}, err
	}
	return info, nil
}
