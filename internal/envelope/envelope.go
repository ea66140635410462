// Package envelope wraps a raw token stream in the ".8xp" container format
// TI-Connect software reads and writes. The core never imports this
// package: only the CLI collaborator touches files, and the envelope is
// exactly the boundary where a token stream becomes bytes on disk (or back).
package envelope

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"
)

// Magic is the 11-byte signature every .8xp file starts with.
var Magic = [11]byte{'*', '*', 'T', 'I', '8', '3', 'F', '*', 0x1A, 0x0A, 0x00}

const (
	commentLength = 42
	nameLength    = 8

	// dataCommentMagic marks Comment as the structured tool/version/author
	// form rather than an opaque 42-byte blob.
	dataCommentMagic = 0xB8

	// FlashIndicatorProgram and FlashIndicatorProtected are the two legal
	// values of Container.FlashIndicator.
	FlashIndicatorProgram   uint16 = 0x0D
	FlashIndicatorProtected uint16 = 0x0B

	// FileTypeProgram and FileTypeProtected are the two legal values of
	// Container.FileType.
	FileTypeProgram   byte = 0x05
	FileTypeProtected byte = 0x06
)

// DefaultToolID identifies this toolkit in exported data comments when the
// caller supplies no tool id of its own.
const DefaultToolID byte = 0x72

// Comment is the structured "data comment" TI-Connect embeds at export
// time: a tool id, a free-form version string, an export date packed as
// BCD nibbles (the wire format titokens's TIProgram uses), and an optional
// author name.
type Comment struct {
	ToolID     byte
	Version    string
	ExportDate time.Time
	Author     string
}

// NewComment builds a Comment stamped with the caller's exportDate, using a
// generated session id as the version string.
func NewComment(exportDate time.Time) Comment {
	return Comment{
		ToolID:     DefaultToolID,
		Version:    uuid.NewString()[:9],
		ExportDate: exportDate,
	}
}

// DisplayExportDate renders the comment's export date the way TI-Connect's
// own file browser shows it, for diagnostics and --json output; the wire
// encoding itself uses the packed BCD nibbles in encode, not this string.
func (c Comment) DisplayExportDate() (string, error) {
	return strftime.Format("%Y-%m-%d", c.ExportDate)
}

func (c Comment) encode() ([commentLength]byte, error) {
	var out [commentLength]byte
	out[0] = dataCommentMagic
	out[1] = c.ToolID
	copy(out[2:11], c.Version)

	day, month, year := c.ExportDate.Day(), int(c.ExportDate.Month()), c.ExportDate.Year()
	out[11] = bcdByte(day)
	out[12] = bcdByte(month)
	out[13] = bcdByte(year / 100)
	out[14] = bcdByte(year % 100)

	author := []byte(c.Author)
	if len(author) > 24 {
		return out, fmt.Errorf("envelope: author %q longer than 24 bytes", c.Author)
	}
	out[15] = byte(len(author))
	copy(out[16:16+len(author)], author)
	return out, nil
}

func bcdByte(n int) byte {
	return byte((n/10)<<4 | (n % 10))
}

func decodeComment(raw [commentLength]byte) Comment {
	if raw[0] != dataCommentMagic {
		return Comment{}
	}
	authorLen := int(raw[15])
	if authorLen > 24 {
		authorLen = 24
	}
	day := unbcd(raw[11])
	month := unbcd(raw[12])
	year := unbcd(raw[13])*100 + unbcd(raw[14])
	return Comment{
		ToolID:     raw[1],
		Version:    string(bytes.TrimRight(raw[2:11], "\x00")),
		ExportDate: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		Author:     string(raw[16 : 16+authorLen]),
	}
}

func unbcd(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// Container is a parsed .8xp program file: the TI-Connect header and
// comment framing the raw token stream the core's tokenizer/reconstructor
// produce and consume.
type Container struct {
	Comment        Comment
	FlashIndicator uint16
	FileType       byte
	Name           string // up to 8 accessible-name characters
	Version        byte
	Flags          byte
	Tokens         []byte
}

// Write serializes c to the .8xp wire format, computing every
// length-derived field and the trailing checksum from Tokens.
func (c *Container) Write(w io.Writer) error {
	if len(c.Name) > nameLength {
		return fmt.Errorf("envelope: program name %q longer than %d characters", c.Name, nameLength)
	}
	comment, err := c.Comment.encode()
	if err != nil {
		return err
	}
	if c.FlashIndicator != FlashIndicatorProgram && c.FlashIndicator != FlashIndicatorProtected {
		return fmt.Errorf("envelope: flash indicator %#x is neither program nor protected", c.FlashIndicator)
	}
	if c.FileType != FileTypeProgram && c.FileType != FileTypeProtected {
		return fmt.Errorf("envelope: file type %#x is neither program nor protected", c.FileType)
	}

	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.Write(comment[:])

	dataLength := uint16(len(c.Tokens) + 17)
	varDataLength := uint16(len(c.Tokens) + 2)
	tokenDataLength := uint16(len(c.Tokens))

	var name [nameLength]byte
	copy(name[:], c.Name)

	writeU16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }
	writeU16(dataLength)
	writeU16(c.FlashIndicator)
	writeU16(varDataLength)
	buf.WriteByte(c.FileType)
	buf.Write(name[:])
	buf.WriteByte(c.Version)
	buf.WriteByte(c.Flags)
	writeU16(varDataLength)
	writeU16(tokenDataLength)
	buf.Write(c.Tokens)
	writeU16(checksum(tokenDataLength, c.Tokens))

	_, err = w.Write(buf.Bytes())
	return err
}

// checksum is token_data_length plus the sum of the data bytes, both
// wrapping modulo 2^16, per spec.md §6.
func checksum(tokenDataLength uint16, data []byte) uint16 {
	sum := tokenDataLength
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// Read parses a .8xp container, validating the magic and the trailing
// checksum.
func Read(r io.Reader) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	const headerBeforeData = 11 + commentLength + 2 + 2 + 2 + 1 + nameLength + 1 + 1 + 2 + 2
	if len(data) < headerBeforeData+2 {
		return nil, fmt.Errorf("envelope: file too short to be a .8xp container (%d bytes)", len(data))
	}
	if !bytes.Equal(data[:11], Magic[:]) {
		return nil, fmt.Errorf("envelope: bad magic, not a .8xp file")
	}

	pos := 11
	var comment [commentLength]byte
	copy(comment[:], data[pos:pos+commentLength])
	pos += commentLength

	pos += 2 // data_length, recomputed on write rather than trusted on read
	flashIndicator := binary.LittleEndian.Uint16(data[pos:])
	pos += 2
	pos += 2 // var_data_length
	fileType := data[pos]
	pos++
	name := string(bytes.TrimRight(data[pos:pos+nameLength], "\x00"))
	pos += nameLength
	version := data[pos]
	pos++
	flags := data[pos]
	pos++
	pos += 2 // var_data_length_2
	tokenDataLength := binary.LittleEndian.Uint16(data[pos:])
	pos += 2

	if len(data) < pos+int(tokenDataLength)+2 {
		return nil, fmt.Errorf("envelope: truncated token data (want %d bytes)", tokenDataLength)
	}
	tokens := data[pos : pos+int(tokenDataLength)]
	pos += int(tokenDataLength)

	wantChecksum := binary.LittleEndian.Uint16(data[pos:])
	gotChecksum := checksum(tokenDataLength, tokens)
	if wantChecksum != gotChecksum {
		return nil, fmt.Errorf("envelope: checksum mismatch: file says %#04x, computed %#04x", wantChecksum, gotChecksum)
	}

	return &Container{
		Comment:        decodeComment(comment),
		FlashIndicator: flashIndicator,
		FileType:       fileType,
		Name:           name,
		Version:        version,
		Flags:          flags,
		Tokens:         append([]byte(nil), tokens...),
	}, nil
}
