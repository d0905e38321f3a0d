// Package storage decides where downloaded files go and writes them.
//
// Paths are rendered from format templates filled with message metadata:
//
//	{category}/{gallery_id} {title}
//	{category}_{gallery_id}_{num:>03}.{extension}
//	{category}_{id}{title:?_//}.{extension}
//
// Each rendered segment is sanitized so metadata can never escape the
// output directory. Files are written to a temporary name and renamed
// into place, so an interrupted download never leaves a partial file
// under its final name.
//
//	manager, err := storage.NewManager(cfg.Output)
//	dir, _ := manager.Directory(formats.Directory, data)
//	name, _ := manager.Filename(formats.Filename, data)
//	path := filepath.Join(dir, name)
//	if !manager.Exists(path) {
//		_, err = manager.Save(path, body)
//	}
package storage
