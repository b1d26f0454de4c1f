package common

// DiskRootDirName is the directory that backs the simulated disk,
// created under the process working directory.
const DiskRootDirName = "disk"

// DefaultPoolSize is the number of frames the buffer manager keeps
// resident when no explicit capacity is given.
const DefaultPoolSize = 8

// NameSize is the fixed on-disk size of table and column names.
const NameSize = 16

var EnableDebug bool = false

var LogLevelSetting LogLevel = INFO | WARN | ERROR | FATAL
