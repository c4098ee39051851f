package common

// File permission constants for everything retailkpi writes
const (
	// FilePermissionNormal is used for reports, exported tables and the config file
	FilePermissionNormal = 0644

	// DirPermissionNormal is used for output and config directories
	DirPermissionNormal = 0755
)
