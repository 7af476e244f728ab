package checksum

import (
	"bufio"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ComputeFileDigest computes the sha256 digest of the file at filePath.
func ComputeFileDigest(filePath string) (digest.Digest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return digest.SHA256.FromReader(file)
}

// CompareWithChecksumFile compares the computed digest of a file with the
// hashes in a checksum file. The file format is the usual sha256sum output,
// one `<hex>  <filename>` pair per line.
func CompareWithChecksumFile(fileName, filePath, checksumFilePath string) (bool, error) {
	computed, err := ComputeFileDigest(filePath)
	if err != nil {
		return false, err
	}

	checksumFile, err := os.Open(checksumFilePath)
	if err != nil {
		return false, err
	}
	defer checksumFile.Close()

	scanner := bufio.NewScanner(checksumFile)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		fileHash := parts[0]
		filename := parts[1]
		// sha256sum marks binary-mode entries with a leading asterisk
		filename = strings.TrimPrefix(filename, "*")

		if filename == fileName && fileHash == computed.Encoded() {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, err
	}

	return false, nil
}
