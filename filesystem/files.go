// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/tools/godoc/vfs"

	"quakeed/pack"
)

// FS is the game file system: the search directory of a game, its pak
// files and the directories of the enabled mods layered on top of it.
type FS struct {
	mutex sync.RWMutex
	ns    vfs.NameSpace
	packs []*pack.Pack
	dirs  []string

	// bound file systems, lowest precedence first
	layers []vfs.FileSystem
}

func New() *FS {
	return &FS{ns: vfs.NewNameSpace()}
}

type packFileSystem struct {
	p *pack.Pack
}

type closer struct {
	*io.SectionReader
}

func (*closer) Close() error {
	return nil
}

type fileInfo struct {
	name  string // base name of the file
	size  int64
	isDir bool
}

func (f *fileInfo) Name() string {
	return f.name
}
func (f *fileInfo) Size() int64 {
	return f.size
}
func (f *fileInfo) Mode() fs.FileMode {
	if f.isDir {
		return fs.ModeDir | 0555
	}
	return 0444
}
func (f *fileInfo) ModTime() time.Time {
	return time.Time{}
}
func (f *fileInfo) IsDir() bool {
	return f.isDir
}
func (f *fileInfo) Sys() any {
	return nil
}

func (p packFileSystem) Open(name string) (vfs.ReadSeekCloser, error) {
	// inside a pack file there is no 'root'. all files are relative to '.'
	name = strings.TrimPrefix(name, "/")
	f, err := p.p.Open(name)
	if err != nil {
		return nil, err
	}
	return &closer{f}, nil
}

func (p packFileSystem) Stat(name string) (os.FileInfo, error) {
	name = strings.Trim(name, "/")
	if s, ok := p.p.Size(name); ok {
		return &fileInfo{name: path.Base(name), size: s}, nil
	}
	if name == "" || len(p.readDir(name)) > 0 {
		return &fileInfo{name: path.Base(name), isDir: true}, nil
	}
	return nil, errors.Wrapf(os.ErrNotExist, "%s: %s", p.p, name)
}

func (p packFileSystem) Lstat(name string) (os.FileInfo, error) {
	return p.Stat(name)
}

func (p packFileSystem) readDir(dir string) []os.FileInfo {
	prefix := ""
	if dir != "" {
		prefix = strings.ToLower(dir) + "/"
	}
	seen := make(map[string]bool)
	var r []os.FileInfo
	for _, n := range p.p.Names() {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		rest := n[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			d := rest[:i]
			if !seen[d] {
				seen[d] = true
				r = append(r, &fileInfo{name: d, isDir: true})
			}
			continue
		}
		s, _ := p.p.Size(n)
		r = append(r, &fileInfo{name: rest, size: s})
	}
	return r
}

func (p packFileSystem) ReadDir(dir string) ([]os.FileInfo, error) {
	dir = strings.Trim(dir, "/")
	r := p.readDir(dir)
	if len(r) == 0 && dir != "" {
		return nil, errors.Wrapf(os.ErrNotExist, "%s: %s", p.p, dir)
	}
	return r, nil
}

func (p packFileSystem) RootType(string) vfs.RootType {
	return ""
}

func (p packFileSystem) String() string {
	return p.p.String()
}

// UseGameDir rebuilds the namespace from gamePath/searchPath and the mod
// directories next to it. Later mods take precedence over earlier ones.
func (f *FS) UseGameDir(gamePath, searchPath string, mods []string) error {
	if gamePath == "" {
		return errors.New("filesystem: no game path")
	}
	root := filepath.Join(gamePath, searchPath)
	if st, err := os.Stat(root); err != nil {
		return errors.Wrap(err, "filesystem")
	} else if !st.IsDir() {
		return errors.Errorf("filesystem: %s is not a directory", root)
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.closePacks()
	f.ns = vfs.NewNameSpace()
	f.dirs = nil
	f.layers = nil
	f.useDir(root)
	for _, m := range mods {
		if m == "" || strings.EqualFold(m, searchPath) {
			continue
		}
		dir := filepath.Join(gamePath, m)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		f.useDir(dir)
	}
	return nil
}

func (f *FS) useDir(dir string) {
	f.dirs = append(f.dirs, dir)
	f.bind(vfs.OS(dir))
	// pak[i].pak files go in front of the directory, higher numbers win
	for i := 0; ; i++ {
		pfp := filepath.Join(dir, fmt.Sprintf("pak%d.pak", i))
		p, err := pack.OpenFile(pfp)
		if err != nil {
			break
		}
		f.packs = append(f.packs, p)
		f.bind(packFileSystem{p})
	}
}

func (f *FS) bind(fsys vfs.FileSystem) {
	f.layers = append(f.layers, fsys)
	f.ns.Bind("/", fsys, "/", vfs.BindBefore)
}

// Bind layers fsys on top of everything bound so far.
func (f *FS) Bind(fsys vfs.FileSystem) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.bind(fsys)
}

// BindPack layers an already opened pack on top of everything bound so far.
func (f *FS) BindPack(p *pack.Pack) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.packs = append(f.packs, p)
	f.bind(packFileSystem{p})
}

// Dirs returns the host directories bound by UseGameDir.
func (f *FS) Dirs() []string {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return append([]string(nil), f.dirs...)
}

func (f *FS) Open(name string) (vfs.ReadSeekCloser, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.ns.Open(clean(name))
}

func (f *FS) Stat(name string) (os.FileInfo, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.ns.Stat(clean(name))
}

func (f *FS) ReadFile(name string) ([]byte, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	b, err := vfs.ReadFile(f.ns, clean(name))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return b, nil
}

// Find lists the files in dir with extension ext over all layers, without
// duplicates. The namespace itself only lists the files of one layer.
func (f *FS) Find(dir, ext string) ([]string, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	seen := make(map[string]bool)
	r := []string{}
	var lastErr error
	found := false
	for i := len(f.layers) - 1; i >= 0; i-- {
		infos, err := f.layers[i].ReadDir(clean(dir))
		if err != nil {
			lastErr = err
			continue
		}
		found = true
		for _, fi := range infos {
			if fi.IsDir() || !strings.EqualFold(Ext(fi.Name()), ext) {
				continue
			}
			p := path.Join(strings.Trim(dir, "/"), fi.Name())
			if !seen[strings.ToLower(p)] {
				seen[strings.ToLower(p)] = true
				r = append(r, p)
			}
		}
	}
	if !found {
		if lastErr == nil {
			lastErr = os.ErrNotExist
		}
		return nil, errors.Wrapf(lastErr, "listing %s", dir)
	}
	sort.Strings(r)
	return r, nil
}

func (f *FS) closePacks() {
	for _, p := range f.packs {
		p.Close()
	}
	f.packs = nil
}

func (f *FS) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.closePacks()
	f.ns = vfs.NewNameSpace()
	f.dirs = nil
	f.layers = nil
	return nil
}

func clean(name string) string {
	return path.Join("/", filepath.ToSlash(name))
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
