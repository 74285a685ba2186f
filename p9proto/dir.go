package p9proto

// ReadDir decodes directory read data, the Data of one Rread reply
// against a directory fid or several such replies concatenated, into
// the Stat records it contains. The server is free to split a
// directory's listing across several Tread/Rread exchanges (the client
// advances Offset by the number of bytes actually consumed each time
// and keeps reading until an Rread comes back empty); ReadDir does no
// I/O itself and only decodes the bytes it is given.
//
// A reply that ends partway through a Stat record is a protocol
// violation: the server promises never to split one at a boundary
// other than the end of a record.
func ReadDir(data []byte) ([]Stat, error) {
	var stats []Stat
	for len(data) > 0 {
		rest, st, err := ParseStat(data)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
		data = rest
	}
	return stats, nil
}
