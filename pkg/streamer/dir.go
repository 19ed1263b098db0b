package streamer

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/teslashibe/go-framestream/internal/log"
	"github.com/teslashibe/go-framestream/pkg/streamer/decode"
)

// DirStreamer iterates the images of a directory in lexicographic
// order. Entries that fail to decode are skipped, not fatal.
type DirStreamer struct {
	dec   decode.Decoder
	dir   string
	names []string
	idx   int
	loop  bool
	log   *slog.Logger
}

// NewDir opens a directory of images. The entry list is read once at
// open time and sorted; iteration walks that fixed list. A missing or
// non-directory path is an InvalidInput; a directory where no entry
// decodes is an OpenError.
func NewDir(dec decode.Decoder, dir string, loop bool) (*DirStreamer, error) {
	info, err := fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &InvalidInput{Message: fmt.Sprintf("can't find the dir by %s", dir)}
	}
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, &OpenError{Message: fmt.Sprintf("can't list the dir %s", dir)}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, &OpenError{Message: fmt.Sprintf("the dir %s is empty", dir)}
	}

	readable := false
	for _, name := range names {
		if f, err := dec.ReadImage(filepath.Join(dir, name)); err == nil {
			f.Close()
			readable = true
			break
		}
	}
	if !readable {
		return nil, &OpenError{Message: fmt.Sprintf("can't read the first image from %s", dir)}
	}

	return &DirStreamer{
		dec:   dec,
		dir:   dir,
		names: names,
		loop:  loop,
		log:   log.Source("directory", dir),
	}, nil
}

func (s *DirStreamer) Next() (Frame, error) {
	// A full pass with no decodable entry ends the stream even when
	// looping, otherwise a directory whose files vanished underneath
	// us would spin forever.
	for tried := 0; tried < len(s.names); tried++ {
		if s.idx >= len(s.names) {
			if !s.loop {
				return nil, io.EOF
			}
			s.idx = 0
		}
		name := s.names[s.idx]
		s.idx++
		frame, err := s.dec.ReadImage(filepath.Join(s.dir, name))
		if err != nil {
			s.log.Debug("skipping undecodable entry", "entry", name)
			continue
		}
		return frame, nil
	}
	return nil, io.EOF
}

func (s *DirStreamer) Kind() SourceKind {
	return KindDirectory
}

func (s *DirStreamer) Close() error {
	s.idx = len(s.names)
	s.loop = false
	return nil
}
