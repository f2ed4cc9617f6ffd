package whatsapp

import "inmo-sync/internal/features/property"

// Option ids mirror the remote schema. The menu keys are what the user
// types, the values are what the store expects.

var propertyTypeMap = map[string]int{
	"1": 1, // Lote
	"2": 2, // Casa
	"3": 3, // Chalet
	"4": 4, // Departamento
	"5": 5, // PH
	"6": 6, // Galpón
	"7": 7, // Cabañas
	"8": 8, // Locales comerciales
}

var localityMap = map[string]int{
	"1": 1, // Villa del Dique
	"2": 2, // Villa Rumipal
	"3": 3, // Santa Rosa
	"4": 4, // Amboy
	"5": 5, // San Ignacio
}

var priceRangeMap = map[string]property.PriceRange{
	"1":  {From: 0, To: 10000},
	"2":  {From: 10000, To: 20000},
	"3":  {From: 20000, To: 40000},
	"4":  {From: 40000, To: 60000},
	"5":  {From: 80000, To: 90000},
	"6":  {From: 90000, To: 110000},
	"7":  {From: 110000, To: 150000},
	"8":  {From: 150000, To: 200000},
	"9":  {From: 200000, To: 300000},
	"10": {From: 300000, To: 500000},
	"11": {From: 500000, To: 99999999},
}

// Seller option ids keyed by the advisor's WhatsApp number. The two apps
// assign different option ids to the same people.
var sellersLeadsMap = map[string]int{
	"whatsapp:+5493571605532": 1,  // Diego Rodriguez
	"whatsapp:+5493546560311": 9,  // Esteban Bosio
	"whatsapp:+5493546490249": 2,  // Esteban Coll
	"whatsapp:+5493546549847": 3,  // Maximiliano Perez
	"whatsapp:+5493546452443": 10, // Gabriel Perez
	"whatsapp:+5493546545121": 7,  // Carlos Perez
	"whatsapp:+5493546513759": 8,  // Santiago Bosio
}

var sellersContactsMap = map[string]int{
	"whatsapp:+5493571605532": 1,  // Diego Rodriguez
	"whatsapp:+5493546560311": 8,  // Esteban Bosio
	"whatsapp:+5493546490249": 5,  // Esteban Coll
	"whatsapp:+5493546549847": 2,  // Maximiliano Perez
	"whatsapp:+5493546452443": 10, // Gabriel Perez
	"whatsapp:+5493546545121": 4,  // Carlos Perez
	"whatsapp:+5493546513759": 9,  // Santiago Bosio
}

const defaultSellerID = 8

// SellerForLeads resolves an advisor number to its leads-app option id.
func SellerForLeads(from string) int {
	if id, ok := sellersLeadsMap[from]; ok {
		return id
	}
	return defaultSellerID
}

// SellerForContacts resolves an advisor number to its contacts-app option id.
func SellerForContacts(from string) int {
	if id, ok := sellersContactsMap[from]; ok {
		return id
	}
	return defaultSellerID
}
