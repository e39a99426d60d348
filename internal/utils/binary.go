package utils

import (
	"bytes"
	"io"
	"os"
)

// ProbeLength is the number of leading bytes inspected when classifying a file as binary.
const ProbeLength = 1024

// IsBinaryProbe reports whether the probe bytes contain a zero byte. A zero
// byte anywhere in the probe classifies the file as binary irrespective of
// its name or extension.
func IsBinaryProbe(probe []byte) bool {
	return bytes.IndexByte(probe, 0) >= 0
}

// ReadProbe reads up to ProbeLength bytes from the file at path.
func ReadProbe(path string) ([]byte, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, ProbeLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return nil, readError
	}
	return buffer[:bytesRead], nil
}
