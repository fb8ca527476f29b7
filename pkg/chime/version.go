package chime

// Version is the current version of the chime module.
const Version = "1.0.0"
