package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Weight file format constants
const (
	MagicNumber   = 0x4E4E5545 // "NNUE"
	FormatVersion = 1
)

// FileHeader leads the weight file and declares the architecture, so a
// network built for different dimensions never half-loads.
type FileHeader struct {
	Magic         uint32
	Version       uint32
	InputSize     uint32
	InputBuckets  uint32
	L1            uint32
	L2            uint32
	OutputBuckets uint32
}

// SaveTo writes the network in the binary format: header, then feature
// transformer weights and biases, then the output-layer sections, all
// little endian.
func (n *Network) SaveTo(w io.Writer) error {
	header := FileHeader{
		Magic:         MagicNumber,
		Version:       FormatVersion,
		InputSize:     InputSize,
		InputBuckets:  InputBuckets,
		L1:            L1Size,
		L2:            L2Size,
		OutputBuckets: OutputBuckets,
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for b := 0; b < InputBuckets; b++ {
		if err := binary.Write(w, binary.LittleEndian, n.FTWeights[b][:]); err != nil {
			return fmt.Errorf("write feature weights bucket %d: %w", b, err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, n.FTBiases[:]); err != nil {
		return fmt.Errorf("write feature biases: %w", err)
	}

	for b := 0; b < OutputBuckets; b++ {
		if err := binary.Write(w, binary.LittleEndian, &n.L2Weights[b]); err != nil {
			return fmt.Errorf("write L2 weights bucket %d: %w", b, err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, &n.L2Biases); err != nil {
		return fmt.Errorf("write L2 biases: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.L3Weights); err != nil {
		return fmt.Errorf("write L3 weights: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.L3Biases); err != nil {
		return fmt.Errorf("write L3 biases: %w", err)
	}
	return nil
}

// LoadFrom reads a network in the SaveTo format, validating the header
// before touching any section.
func (n *Network) LoadFrom(r io.Reader) error {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	if header.Magic != MagicNumber {
		return fmt.Errorf("bad magic number: expected %#x, got %#x", MagicNumber, header.Magic)
	}
	if header.Version != FormatVersion {
		return fmt.Errorf("unsupported format version: expected %d, got %d", FormatVersion, header.Version)
	}
	if header.InputSize != InputSize || header.InputBuckets != InputBuckets ||
		header.L1 != L1Size || header.L2 != L2Size || header.OutputBuckets != OutputBuckets {
		return fmt.Errorf("architecture mismatch: file is %dx%d->%dx2->%dx%d",
			header.InputSize, header.InputBuckets, header.L1, header.L2, header.OutputBuckets)
	}

	for b := 0; b < InputBuckets; b++ {
		if err := binary.Read(r, binary.LittleEndian, n.FTWeights[b][:]); err != nil {
			return fmt.Errorf("read feature weights bucket %d: %w", b, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, n.FTBiases[:]); err != nil {
		return fmt.Errorf("read feature biases: %w", err)
	}

	for b := 0; b < OutputBuckets; b++ {
		if err := binary.Read(r, binary.LittleEndian, &n.L2Weights[b]); err != nil {
			return fmt.Errorf("read L2 weights bucket %d: %w", b, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.L2Biases); err != nil {
		return fmt.Errorf("read L2 biases: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.L3Weights); err != nil {
		return fmt.Errorf("read L3 weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.L3Biases); err != nil {
		return fmt.Errorf("read L3 biases: %w", err)
	}
	return nil
}

// SaveWeights writes the network to a file.
func (n *Network) SaveWeights(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create weights file: %w", err)
	}
	defer f.Close()
	if err := n.SaveTo(f); err != nil {
		return err
	}
	return f.Close()
}

// LoadWeights reads the network from a file.
func (n *Network) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open weights file: %w", err)
	}
	defer f.Close()
	return n.LoadFrom(f)
}

// LoadNetwork returns the network at path, or the embedded default when
// path is empty.
func LoadNetwork(path string) (*Network, error) {
	if path == "" {
		return DefaultNetwork(), nil
	}
	n := NewNetwork()
	if err := n.LoadWeights(path); err != nil {
		return nil, err
	}
	return n, nil
}
