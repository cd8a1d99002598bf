package index

import (
	"strings"

	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

// Valkey key patterns, with prefix "rag:":
//
//	rag:idx:{domain}            FT index
//	rag:chunk:{domain}:{id}     chunk hash
//	rag:domain:{domain}         index metadata hash
//	rag:seq:{domain}            id counter
type keys struct {
	prefix string
}

func (k keys) index(d domainname.Name) string {
	return k.prefix + "idx:" + d.String()
}

func (k keys) chunkPrefix(d domainname.Name) string {
	return k.prefix + "chunk:" + d.String() + ":"
}

func (k keys) chunk(d domainname.Name, id string) string {
	return k.chunkPrefix(d) + id
}

func (k keys) chunkID(d domainname.Name, key string) string {
	return strings.TrimPrefix(key, k.chunkPrefix(d))
}

func (k keys) meta(d domainname.Name) string {
	return k.prefix + "domain:" + d.String()
}

func (k keys) seq(d domainname.Name) string {
	return k.prefix + "seq:" + d.String()
}
