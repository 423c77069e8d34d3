// Package record reads and writes the XML records that represent one
// entity on disk.
//
// The root element of every record carries the entity's Key, Alias and
// Level as attributes, so the hierarchy depth of a record can be read
// without decoding the rest of it:
//
//	<ContentType Key="..." Alias="page" Level="1">
//	  <Name>Page</Name>
//	  <Parent Key="..." />
//	  <Folder>Site/Pages</Folder>
//	  <Properties>
//	    <Property Name="icon">icon-document</Property>
//	  </Properties>
//	</ContentType>
package record
