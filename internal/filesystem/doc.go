/*
Package filesystem provides the filesystem operations used while scanning the
GIF directory.

# Stale file handles

StatWithRetry and OpenWithRetry wrap os.Stat and os.Open with exponential
backoff on ESTALE, which GIF directories mounted over NFS return when a file
is replaced underneath a client. Any other error is returned immediately so a
vanished file is still reported as fs.ErrNotExist on the first attempt.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

Defaults: 3 retries, 50ms initial backoff, 500ms cap. Retries are recorded in
the gif_viewer_filesystem_* metrics, labelled by the volume a VolumeResolver
maps the path to.

# Ignore files

LoadIgnoreFile compiles a gitignore-style pattern file (".gifignore" in the
GIF directory by default). Entries matching a pattern are skipped by scans.
*/
package filesystem
