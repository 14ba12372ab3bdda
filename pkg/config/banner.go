package config

const Version = "1.2.0"

const ProjectName = "SSTImap"
