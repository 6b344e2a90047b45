// Package netbox fetches devices and virtual machines from Netbox.
//
// List endpoints are paginated with limit/offset; the Client follows the
// next link until the last page. A device or VM payload does not carry its
// addresses, so the Service fetches interfaces and IP addresses as well and
// attaches them to each record:
//
//	device.interfaces[].ip_addresses[]
//
// IP addresses are linked through assigned_object_type
// (dcim.interface or virtualization.vminterface) and assigned_object_id.
// ToRecords then reads the enriched payload into reconcile.InfraRecord
// values: primary and interface IPs without CIDR suffix, dns_name values
// and the normalized status.
package netbox
