package moga

import (
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ReadDNASeq is the value sent over `chan ReadDNASeq` when a new
// sequence is read from a FASTA file.
type ReadDNASeq struct {
	Id  string
	Seq string
	Err error
}

// ReadDNASeqs reads a FASTA formatted file and returns a channel that
// each new sequence is sent to. Residues are upper cased.
func ReadDNASeqs(fileName string) (chan ReadDNASeq, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}

	reader := fasta.NewReader(file, linear.NewSeq("", nil, alphabet.DNA))
	seqChan := make(chan ReadDNASeq, 200)
	go func() {
		defer file.Close()
		for {
			s, err := reader.Read()
			if err == io.EOF {
				close(seqChan)
				break
			}
			if err != nil {
				seqChan <- ReadDNASeq{Err: err}
				close(seqChan)
				break
			}
			read := s.(*linear.Seq)
			residues := make([]byte, len(read.Seq))
			for i, letter := range read.Seq {
				residues[i] = byte(letter)
			}
			seqChan <- ReadDNASeq{
				Id:  read.ID,
				Seq: strings.ToUpper(string(residues)),
			}
		}
	}()

	return seqChan, nil
}
