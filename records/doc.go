//Package records implements the exchange of gothermo data with other programs.
//Substances and interaction parameters are read and written as flat records,
//in JSON or YAML files that can be compressed with gzip or zstd, or built from
//loosely typed rows, such as the ones returned by databases. The results of
//gothermo calculations can be sent as JSON to any io.Writer, for instance,
//to a program at the other end of a UNIX pipe.
package records
