package catalog

import (
	"github.com/All23tor/DiscoBD/storage/table/schema"
	"github.com/All23tor/DiscoBD/types"
)

type TableMetadata struct {
	name   string
	header types.SectorAddress
	schema *schema.Schema
}

func (t *TableMetadata) Name() string {
	return t.name
}

func (t *TableMetadata) Header() types.SectorAddress {
	return t.header
}

func (t *TableMetadata) Schema() *schema.Schema {
	return t.schema
}
