package source

// FileID indexes a FileSet; IDs are dense and start at 0.
type FileID uint32

// FileFlags records how the content of a file was obtained.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // не с диска: тест, stdin, CompileSource
	FileHadBOM                               // leading UTF-8 BOM was stripped
	FileNormalizedCRLF                       // CRLF line ends became LF
	FileNormalizedNFC                        // text was converted to NFC
)

// Has reports whether all bits of flag are set.
func (f FileFlags) Has(flag FileFlags) bool { return f&flag == flag }

// File is one loaded source: normalized content, its line index and a
// content hash used as part of the result cache key.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of the newline characters
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position for humans.
type LineCol struct {
	Line uint32
	Col  uint32
}
